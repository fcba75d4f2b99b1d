package room

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"jaffre-server/pkg/protocol"
)

// Publisher mirrors the spectator view of every broadcast to collaborators outside the game server
type Publisher interface {
	Publish(gameID string, msg *protocol.Message)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, *protocol.Message) {}

// publishTimeout bounds a single PUBLISH call
const publishTimeout = 2 * time.Second

// RedisPublisher publishes events on a Redis pub/sub channel.
// Messages are queued and sent by a single worker so a slow Redis never stalls a game
type RedisPublisher struct {
	client  *redis.Client
	channel string
	queue   chan []byte
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// RedisEvent is the payload published for each event
type RedisEvent struct {
	GameID  string            `json:"gameId"`
	Message *protocol.Message `json:"message"`
}

// NewRedisPublisher starts a publisher worker. Call Close to stop it
func NewRedisPublisher(client *redis.Client, channel string, queueSize int) *RedisPublisher {
	if queueSize <= 0 {
		queueSize = 1024
	}

	p := &RedisPublisher{
		client:  client,
		channel: channel,
		queue:   make(chan []byte, queueSize),
		done:    make(chan struct{}),
	}

	p.wg.Add(1)
	go p.run()

	return p
}

// Publish queues the message. It is dropped if the queue is full
func (p *RedisPublisher) Publish(gameID string, msg *protocol.Message) {
	payload, err := json.Marshal(RedisEvent{GameID: gameID, Message: msg})
	if err != nil {
		logrus.WithError(err).WithField("gameId", gameID).Error("could not encode event for redis")
		return
	}

	select {
	case <-p.done:
		return
	default:
	}

	select {
	case p.queue <- payload:
	default:
		logrus.WithFields(logrus.Fields{
			"gameId": gameID,
			"event":  msg.Event,
		}).Warn("redis publish queue is full, dropping event")
	}
}

func (p *RedisPublisher) run() {
	defer p.wg.Done()

	for {
		select {
		case payload := <-p.queue:
			p.publish(payload)
		case <-p.done:
			return
		}
	}
}

func (p *RedisPublisher) publish(payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		logrus.WithError(err).WithField("channel", p.channel).Error("could not publish event")
	}
}

// Close stops the worker. Queued events that were not sent yet are dropped
func (p *RedisPublisher) Close() {
	p.once.Do(func() {
		close(p.done)
	})

	p.wg.Wait()
}
