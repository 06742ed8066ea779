package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"jumewears/internal/queue"
)

// Pool drains the mail stream with a fixed set of consumer goroutines, all
// members of the same consumer group.
type Pool struct {
	consumer queue.Consumer
	handler  *Handler

	size     int
	batch    int64
	blockFor time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

type PoolConfig struct {
	// Size is the number of worker goroutines. Defaults to 2.
	Size int
	// Batch caps events read per XREADGROUP call. Defaults to 10.
	Batch int64
	// BlockFor bounds how long a read waits for new events before the
	// worker re-checks for shutdown. Defaults to 5s.
	BlockFor time.Duration
}

func (c *PoolConfig) applyDefaults() {
	if c.Size <= 0 {
		c.Size = 2
	}
	if c.Batch <= 0 {
		c.Batch = 10
	}
	if c.BlockFor <= 0 {
		c.BlockFor = 5 * time.Second
	}
}

func NewPool(consumer queue.Consumer, handler *Handler, cfg PoolConfig) *Pool {
	cfg.applyDefaults()
	return &Pool{
		consumer: consumer,
		handler:  handler,
		size:     cfg.Size,
		batch:    cfg.Batch,
		blockFor: cfg.BlockFor,
	}
}

// Start creates the consumer group if needed and launches the workers.
func (p *Pool) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	if err := p.consumer.EnsureGroup(p.ctx, queue.StreamMail, queue.ConsumerGroupMail); err != nil {
		return err
	}

	for i := 1; i <= p.size; i++ {
		p.wg.Add(1)
		go p.run(i, fmt.Sprintf("mail-worker-%d", i))
	}

	log.Printf("[MailWorkers] %d workers consuming stream=%s group=%s",
		p.size, queue.StreamMail, queue.ConsumerGroupMail)
	return nil
}

// Stop cancels the workers and blocks until every in-flight event is done.
func (p *Pool) Stop() {
	log.Printf("[MailWorkers] stopping")
	p.cancel()
	p.wg.Wait()
	log.Printf("[MailWorkers] stopped")
}

func (p *Pool) run(id int, name string) {
	defer p.wg.Done()

	// Events delivered to this consumer before a crash are re-read first
	// so no queued email is lost across restarts.
	p.drainPending(id, name)

	for {
		select {
		case <-p.ctx.Done():
			return
		default:
			p.readBatch(id, name)
		}
	}
}

func (p *Pool) drainPending(id int, name string) {
	for {
		events, err := p.consumer.ReadPending(p.ctx, queue.StreamMail, queue.ConsumerGroupMail, name, p.batch)
		if err != nil {
			log.Printf("[MailWorker-%d] read pending: %v", id, err)
			return
		}
		if len(events) == 0 {
			return
		}
		log.Printf("[MailWorker-%d] recovering %d pending events", id, len(events))
		p.handleBatch(id, events)
	}
}

func (p *Pool) readBatch(id int, name string) {
	events, err := p.consumer.Read(p.ctx, queue.StreamMail, queue.ConsumerGroupMail, name, p.batch, p.blockFor)
	if err != nil {
		log.Printf("[MailWorker-%d] read: %v", id, err)
		time.Sleep(time.Second)
		return
	}
	if len(events) == 0 {
		return
	}
	p.handleBatch(id, events)
}

// handleBatch processes then acknowledges each event. Handler failures are
// acknowledged too: a mail that keeps failing would otherwise wedge the
// consumer's pending list forever.
func (p *Pool) handleBatch(id int, events []queue.Message) {
	for _, msg := range events {
		if err := p.handler.HandleEvent(p.ctx, msg.Event); err != nil {
			log.Printf("[MailWorker-%d] event %s type=%s failed: %v", id, msg.ID, msg.Event.Type, err)
		}
		if err := p.consumer.Ack(p.ctx, queue.StreamMail, queue.ConsumerGroupMail, msg.ID); err != nil {
			log.Printf("[MailWorker-%d] ack %s: %v", id, msg.ID, err)
		}
	}
}
