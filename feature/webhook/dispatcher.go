package webhook

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"

	"asset-sync/core/metrics"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

const (
	topic        = "webhook.events"
	metaLane     = "lane"
	metaConnID   = "connection_id"
	defaultLanes = 8
)

// ErrQueueFull is returned by Enqueue when the event's lane has no room. The
// event stays received and is picked up by the stale sweep.
var ErrQueueFull = errors.New("webhook queue full")

// HandleFunc processes one queued event.
type HandleFunc func(ctx context.Context, eventID string)

// Dispatcher queues event ids and processes them in lanes. Every connection
// hashes to one lane and each lane runs on a single goroutine, so events of a
// connection are handled in the order they were enqueued while different
// connections proceed in parallel.
//
// Publishing goes through a watermill gochannel topic that blocks until the
// router has placed the event in its lane; this keeps enqueue order intact.
// The router never waits on a lane, so a busy lane cannot stall publishers.
type Dispatcher struct {
	pubsub *gochannel.GoChannel
	lanes  []chan string
	handle HandleFunc
	logger *zap.Logger

	cancel context.CancelFunc
	routed sync.WaitGroup
}

// NewDispatcher subscribes to the queue topic and starts routing. Lanes are
// consumed by Serve.
func NewDispatcher(cfg Config, handle HandleFunc, logger *zap.Logger) (*Dispatcher, error) {
	n := cfg.Workers
	if n <= 0 {
		n = defaultLanes
	}

	d := &Dispatcher{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            int64(cfg.Buffer),
			BlockPublishUntilSubscriberAck: true,
		}, newZapAdapter(logger)),
		lanes:  make([]chan string, n),
		handle: handle,
		logger: logger,
	}
	for i := range d.lanes {
		d.lanes[i] = make(chan string, cfg.Buffer)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	messages, err := d.pubsub.Subscribe(ctx, topic)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	d.routed.Add(1)
	go d.route(messages)
	return d, nil
}

// Lane returns the lane index of a connection.
func (d *Dispatcher) Lane(connectionID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatUint(uint64(connectionID), 10)))
	return int(h.Sum32() % uint32(len(d.lanes)))
}

// Enqueue queues an event for processing. It fails fast with ErrQueueFull
// when the connection's lane is full.
func (d *Dispatcher) Enqueue(ctx context.Context, connectionID uint, eventID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to enqueue webhook event %s: %w", eventID, err)
	}

	lane := d.Lane(connectionID)
	if len(d.lanes[lane]) >= cap(d.lanes[lane]) {
		return fmt.Errorf("%w: lane %d, event %s", ErrQueueFull, lane, eventID)
	}

	msg := message.NewMessage(watermill.NewUUID(), []byte(eventID))
	msg.Metadata.Set(metaLane, strconv.Itoa(lane))
	msg.Metadata.Set(metaConnID, strconv.FormatUint(uint64(connectionID), 10))

	metrics.WebhookQueueDepth.Inc()
	if err := d.pubsub.Publish(topic, msg); err != nil {
		metrics.WebhookQueueDepth.Dec()
		return fmt.Errorf("failed to enqueue webhook event %s: %w", eventID, err)
	}
	return nil
}

func (d *Dispatcher) route(messages <-chan *message.Message) {
	defer d.routed.Done()
	for msg := range messages {
		lane, err := strconv.Atoi(msg.Metadata.Get(metaLane))
		if err != nil || lane < 0 || lane >= len(d.lanes) {
			d.logger.Error("Dropping message with invalid lane", zap.String("lane", msg.Metadata.Get(metaLane)))
			metrics.WebhookQueueDepth.Dec()
			msg.Ack()
			continue
		}

		select {
		case d.lanes[lane] <- string(msg.Payload):
		default:
			// Another publisher filled the lane after the check in Enqueue.
			d.logger.Warn("Dropping webhook event, lane is full",
				zap.Int("lane", lane),
				zap.String("event_id", string(msg.Payload)),
				zap.String("connection_id", msg.Metadata.Get(metaConnID)),
			)
			metrics.WebhookQueueDepth.Dec()
		}
		msg.Ack()
	}
}

// Serve runs one goroutine per lane until ctx is done. Events still queued
// stay in their lane for the next Serve.
func (d *Dispatcher) Serve(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := range d.lanes {
		wg.Add(1)
		go func(lane chan string) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case eventID := <-lane:
					metrics.WebhookQueueDepth.Dec()
					d.run(ctx, eventID)
				}
			}
		}(d.lanes[i])
	}
	wg.Wait()
	return ctx.Err()
}

func (d *Dispatcher) run(ctx context.Context, eventID string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Webhook handler panicked", zap.String("event_id", eventID), zap.Any("panic", r))
		}
	}()
	d.handle(ctx, eventID)
}

// Close stops routing and releases the pubsub.
func (d *Dispatcher) Close() error {
	d.cancel()
	err := d.pubsub.Close()
	d.routed.Wait()
	return err
}

func (d *Dispatcher) String() string {
	return "webhook-dispatcher"
}
