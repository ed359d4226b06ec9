package notification

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventParticipantInvited EventType = "participant_invited"
	EventCommented          EventType = "commented"
	EventApproved           EventType = "approved"
	EventChangesRequested   EventType = "changes_requested"
	EventRejected           EventType = "rejected"
)

// Event — доменное событие для доставки уведомлений.
// Ядро только публикует события, доставка его не блокирует.
type Event struct {
	Type          EventType `json:"type"`
	ReviewID      uuid.UUID `json:"review_id"`
	ParticipantID uuid.UUID `json:"participant_id"`
	Email         string    `json:"email"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(event Event)
}

// Sink — получатель событий на стороне доставки (почта, мессенджер и т.д.).
type Sink interface {
	Deliver(event Event)
}

// LogSink пишет события в лог. Используется, пока реальная доставка
// живет в отдельном сервисе.
type LogSink struct{}

func (LogSink) Deliver(event Event) {
	log.Printf("[Notification] %s review=%s participant=%s email=%s",
		event.Type, event.ReviewID, event.ParticipantID, event.Email)
}

// Dispatcher принимает события неблокирующе и доставляет их в фоне.
// При переполнении буфера событие отбрасывается с записью в лог:
// уведомления best-effort и не должны задерживать ответ.
type Dispatcher struct {
	sink   Sink
	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewDispatcher(sink Sink, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Dispatcher{
		sink:   sink,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case event := <-d.events:
				d.sink.Deliver(event)
			case <-d.done:
				// Дожимаем то, что уже в буфере
				for {
					select {
					case event := <-d.events:
						d.sink.Deliver(event)
					default:
						return
					}
				}
			}
		}
	}()
}

func (d *Dispatcher) Stop() {
	close(d.done)
	d.wg.Wait()
}

func (d *Dispatcher) Publish(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	select {
	case d.events <- event:
	default:
		log.Printf("[Notification] buffer full, dropping event %s for review %s",
			event.Type, event.ReviewID)
	}
}
