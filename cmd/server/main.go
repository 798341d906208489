package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/VitaminP8/threadery/internal/activity"
	"github.com/VitaminP8/threadery/internal/auth"
	"github.com/VitaminP8/threadery/internal/config"
	"github.com/VitaminP8/threadery/internal/handler"
	"github.com/VitaminP8/threadery/internal/logger"
	"github.com/VitaminP8/threadery/internal/middleware"
	"github.com/VitaminP8/threadery/internal/storage/memory"
	mongoStorage "github.com/VitaminP8/threadery/internal/storage/mongo"
	"github.com/VitaminP8/threadery/internal/subscription"
	"github.com/VitaminP8/threadery/internal/thread"
	"github.com/VitaminP8/threadery/internal/user"
)

func main() {
	storageType := flag.String("storage", "mongo", "Тип хранилища: memory или mongo")
	flag.Parse()

	config.LoadEnv()
	logger.InitLogger()
	log := logger.Log

	manager := subscription.NewSubscriptionManager()

	var userStore user.UserStorage
	var threadStore thread.ThreadStorage
	var activityStore activity.ActivityStorage

	switch *storageType {
	case "mongo":
		log.Println("Используется MongoDB хранилище")
		// Подключение ленивое и идемпотентное: при недоступной базе
		// процесс стартует, операции будут отвечать ошибкой хранилища
		mongoStorage.Connect(context.Background())
		if err := mongoStorage.EnsureIndexes(context.Background()); err != nil {
			log.WithError(err).Warn("could not ensure indexes")
		}

		userStore = mongoStorage.NewUserMongoStorage()
		threadStore = mongoStorage.NewThreadMongoStorage(manager)
		activityStore = mongoStorage.NewActivityMongoStorage()

	case "memory":
		log.Println("Используется in-memory хранилище")
		store := memory.NewStore()
		userStore = memory.NewUserMemoryStorage(store)
		threadStore = memory.NewThreadMemoryStorage(store, manager)
		activityStore = memory.NewActivityMemoryStorage(store)

	default:
		log.Fatalf("неизвестный тип хранилища: %s", *storageType)
	}

	h := handler.New(userStore, threadStore, activityStore, manager)

	r := chi.NewRouter()
	r.Use(middleware.Logger(log))
	// AuthMiddleware вытаскивает JWT identity provider'а из заголовка,
	// валидирует его и кладет внешний userID в context
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.AuthMiddleware)
		r.Mount("/", h.Routes())
	})

	port := config.GetEnvDefault("PORT", "8080")
	server := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// запуск HTTP сервера
	go func() {
		log.Printf("Сервер запущен на http://localhost:%s/", port)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // ждет сигнал

	log.Println("Завершение...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Ошибка при завершении сервера: %v", err)
	}

	if *storageType == "mongo" {
		if err := mongoStorage.Close(shutdownCtx); err != nil {
			log.WithError(err).Error("could not close database connection")
		}
	}

	log.Println("Сервер остановлен корректно")
}
