package subscription

import "github.com/VitaminP8/threadery/models"

type Manager interface {
	Subscribe(threadID string) (<-chan *models.ThreadNode, func())
	Publish(threadID string, reply *models.ThreadNode)
}
