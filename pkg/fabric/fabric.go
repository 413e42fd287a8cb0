package fabric

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/log"
	"github.com/droverhq/drover/pkg/metrics"
)

const (
	// defaultConfirmTimeout bounds a publish when the caller's context
	// carries no deadline.
	defaultConfirmTimeout = 30 * time.Second
	channelWaitInterval   = 100 * time.Millisecond
)

// Fabric is the durable topic-routed messaging layer. One instance is
// shared by everything in the process that publishes or consumes.
//
// Delivery is at-least-once: handlers must be idempotent. Publishes are
// confirmed; a call returns only once the broker has accepted the
// message or the deadline expired.
type Fabric struct {
	cfg     config.Broker
	logger  zerolog.Logger
	limiter *rate.Limiter

	mu   sync.RWMutex
	conn *amqp.Connection

	pubPool chan *amqp.Channel

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a Fabric without connecting. Call Connect before use.
func New(cfg config.Broker) *Fabric {
	f := &Fabric{
		cfg:     cfg,
		logger:  log.WithComponent("fabric"),
		pubPool: make(chan *amqp.Channel, cfg.MaxConnPool),
		closed:  make(chan struct{}),
	}
	if cfg.MaxMessagesPerSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(cfg.MaxMessagesPerSecond), cfg.MaxMessagesPerSecond)
	}
	return f
}

// Connect dials the broker, declares the topology, and starts the
// recovery monitor
func (f *Fabric) Connect(ctx context.Context) error {
	conn, err := f.dial(ctx)
	if err != nil {
		return err
	}

	if err := f.setup(conn); err != nil {
		conn.Close()
		return err
	}

	f.wg.Add(1)
	go f.monitor(conn)

	f.logger.Info().
		Str("exchange", f.cfg.Exchange).
		Int("pool", f.cfg.MaxConnPool).
		Msg("Connected to message broker")
	return nil
}

// dial tries each cluster host in order, then the primary host
func (f *Fabric) dial(ctx context.Context) (*amqp.Connection, error) {
	urls := make([]string, 0, len(f.cfg.ClusterHosts)+1)
	urls = append(urls, f.cfg.URL())
	for _, host := range f.cfg.ClusterHosts {
		c := f.cfg
		c.HostName = host
		urls = append(urls, c.URL())
	}

	var lastErr error
	for _, url := range urls {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		conn, err := amqp.DialConfig(url, amqp.Config{
			Heartbeat: f.cfg.Heartbeat,
			Properties: amqp.Table{
				"connection_name": "drover",
			},
		})
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to connect to broker: %w", lastErr)
}

// setup declares topology and builds the publisher channel pool on a
// fresh connection
func (f *Fabric) setup(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if err := declareTopology(ch, f.cfg); err != nil {
		ch.Close()
		return err
	}
	ch.Close()

	// Drain stale channels from a previous connection.
	for {
		select {
		case old := <-f.pubPool:
			old.Close()
			continue
		default:
		}
		break
	}

	for i := 0; i < f.cfg.MaxConnPool; i++ {
		pub, err := newConfirmChannel(conn)
		if err != nil {
			return err
		}
		f.pubPool <- pub
	}

	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()
	return nil
}

func newConfirmChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open publisher channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}
	return ch, nil
}

// monitor watches for connection loss and recovers with bounded backoff
func (f *Fabric) monitor(conn *amqp.Connection) {
	defer f.wg.Done()

	closeCh := conn.NotifyClose(make(chan *amqp.Error, 1))
	select {
	case <-f.closed:
		return
	case amqpErr := <-closeCh:
		if amqpErr == nil {
			return
		}
		f.logger.Warn().Str("reason", amqpErr.Reason).Msg("Broker connection lost")
	}

	if !f.cfg.AutoRecover {
		return
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = f.cfg.RecoveryInterval
	bo.MaxElapsedTime = 0

	for {
		select {
		case <-f.closed:
			return
		case <-time.After(bo.NextBackOff()):
		}

		next, err := f.dial(context.Background())
		if err != nil {
			f.logger.Warn().Err(err).Msg("Broker reconnect failed, retrying")
			continue
		}
		if err := f.setup(next); err != nil {
			f.logger.Warn().Err(err).Msg("Broker topology setup failed, retrying")
			next.Close()
			continue
		}

		metrics.BrokerReconnects.Inc()
		f.logger.Info().Msg("Broker connection recovered")

		f.wg.Add(1)
		go f.monitor(next)
		return
	}
}

// connection returns the current live connection, or nil
func (f *Fabric) connection() *amqp.Connection {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.conn == nil || f.conn.IsClosed() {
		return nil
	}
	return f.conn
}

// Connected reports whether a live broker connection exists
func (f *Fabric) Connected() bool {
	return f.connection() != nil
}

// acquireChannel takes a publisher channel from the pool, discarding
// any that died with the previous connection
func (f *Fabric) acquireChannel(ctx context.Context) (*amqp.Channel, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-f.closed:
			return nil, fmt.Errorf("fabric is closed")
		case ch := <-f.pubPool:
			if ch.IsClosed() {
				continue
			}
			return ch, nil
		case <-time.After(channelWaitInterval):
			// Pool starved: open an extra channel on the live connection.
			conn := f.connection()
			if conn == nil {
				continue
			}
			return newConfirmChannel(conn)
		}
	}
}

func (f *Fabric) releaseChannel(ch *amqp.Channel) {
	if ch.IsClosed() {
		return
	}
	select {
	case f.pubPool <- ch:
	default:
		ch.Close()
	}
}

// Publish sends one persistent JSON message, returning once the broker
// confirms it. A nil props publishes with defaults.
func (f *Fabric) Publish(ctx context.Context, routingKey string, payload interface{}, props *Props) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload for %s: %w", routingKey, err)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("publish rate limit wait aborted: %w", err)
		}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultConfirmTimeout)
		defer cancel()
	}

	ch, err := f.acquireChannel(ctx)
	if err != nil {
		metrics.PublishFailures.Inc()
		return err
	}

	dc, err := ch.PublishWithDeferredConfirmWithContext(ctx, f.cfg.Exchange, routingKey, false, false, publishing(body, props))
	if err != nil {
		ch.Close()
		metrics.PublishFailures.Inc()
		return fmt.Errorf("failed to publish to %s: %w", routingKey, err)
	}

	acked, err := dc.WaitContext(ctx)
	f.releaseChannel(ch)
	if err != nil {
		metrics.PublishFailures.Inc()
		return fmt.Errorf("publish confirm for %s: %w", routingKey, err)
	}
	if !acked {
		metrics.PublishFailures.Inc()
		return fmt.Errorf("broker rejected publish to %s", routingKey)
	}

	metrics.MessagesPublished.WithLabelValues(prefix(routingKey)).Inc()
	return nil
}

// PublishBatch sends all payloads on one channel and waits for every
// confirm. Any unconfirmed message yields a BatchError listing the
// per-message outcomes.
func (f *Fabric) PublishBatch(ctx context.Context, routingKey string, payloads []interface{}) error {
	if len(payloads) == 0 {
		return nil
	}

	bodies := make([][]byte, len(payloads))
	for i, p := range payloads {
		body, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to encode batch message %d: %w", i, err)
		}
		bodies[i] = body
	}

	if f.limiter != nil {
		if err := f.limiter.WaitN(ctx, len(payloads)); err != nil {
			return fmt.Errorf("publish rate limit wait aborted: %w", err)
		}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultConfirmTimeout)
		defer cancel()
	}

	ch, err := f.acquireChannel(ctx)
	if err != nil {
		metrics.PublishFailures.Inc()
		return err
	}

	confirms := make([]*amqp.DeferredConfirmation, len(bodies))
	batchErr := &BatchError{}
	for i, body := range bodies {
		dc, err := ch.PublishWithDeferredConfirmWithContext(ctx, f.cfg.Exchange, routingKey, false, false, publishing(body, nil))
		if err != nil {
			batchErr.Outcomes = append(batchErr.Outcomes, BatchOutcome{Index: i, Err: err})
			continue
		}
		confirms[i] = dc
	}

	for i, dc := range confirms {
		if dc == nil {
			continue
		}
		acked, err := dc.WaitContext(ctx)
		if err != nil {
			batchErr.Outcomes = append(batchErr.Outcomes, BatchOutcome{Index: i, Err: err})
		} else if !acked {
			batchErr.Outcomes = append(batchErr.Outcomes, BatchOutcome{Index: i, Err: fmt.Errorf("rejected by broker")})
		}
	}

	if len(batchErr.Outcomes) > 0 {
		ch.Close()
		metrics.PublishFailures.Inc()
		return batchErr
	}

	f.releaseChannel(ch)
	metrics.MessagesPublished.WithLabelValues(prefix(routingKey)).Add(float64(len(bodies)))
	return nil
}

func publishing(body []byte, props *Props) amqp.Publishing {
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    uuid.New().String(),
		Body:         body,
	}
	if props == nil {
		return pub
	}
	if props.MessageID != "" {
		pub.MessageId = props.MessageID
	}
	pub.CorrelationId = props.CorrelationID
	pub.Priority = props.Priority
	if props.Expiration > 0 {
		pub.Expiration = strconv.FormatInt(props.Expiration.Milliseconds(), 10)
	}
	if len(props.Headers) > 0 {
		pub.Headers = amqp.Table(props.Headers)
	}
	return pub
}

// Consume starts a concurrent consumer on queue. It survives broker
// reconnects and stops when ctx is done or the fabric closes.
func (f *Fabric) Consume(ctx context.Context, queue string, handler Handler) {
	f.wg.Add(1)
	go f.consumeLoop(ctx, queue, handler)
}

func (f *Fabric) consumeLoop(ctx context.Context, queue string, handler Handler) {
	defer f.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-f.closed:
			return
		default:
		}

		conn := f.connection()
		if conn == nil {
			f.sleep(ctx, channelWaitInterval)
			continue
		}

		ch, err := conn.Channel()
		if err != nil {
			f.sleep(ctx, f.cfg.RecoveryInterval)
			continue
		}
		if err := ch.Qos(f.cfg.Prefetch, 0, false); err != nil {
			ch.Close()
			f.sleep(ctx, f.cfg.RecoveryInterval)
			continue
		}

		deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
		if err != nil {
			f.logger.Warn().Err(err).Str("queue", queue).Msg("Consume failed, retrying")
			ch.Close()
			f.sleep(ctx, f.cfg.RecoveryInterval)
			continue
		}

		f.logger.Debug().Str("queue", queue).Int("prefetch", f.cfg.Prefetch).Msg("Consumer attached")
		f.dispatch(ctx, queue, deliveries, handler)
		ch.Close()
		// Delivery channel closed: connection lost or ctx done; loop
		// re-attaches once the monitor brings the connection back.
	}
}

// dispatch fans deliveries out to handler goroutines, bounded by prefetch
func (f *Fabric) dispatch(ctx context.Context, queue string, deliveries <-chan amqp.Delivery, handler Handler) {
	sem := make(chan struct{}, f.cfg.Prefetch)
	var handlers sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			handlers.Wait()
			return
		case d, ok := <-deliveries:
			if !ok {
				handlers.Wait()
				return
			}
			sem <- struct{}{}
			handlers.Add(1)
			go func(d amqp.Delivery) {
				defer func() { <-sem; handlers.Done() }()
				f.handle(queue, d, handler)
			}(d)
		}
	}
}

func (f *Fabric) handle(queue string, d amqp.Delivery, handler Handler) {
	verdict := Dead
	func() {
		defer func() {
			if r := recover(); r != nil {
				f.logger.Error().
					Str("queue", queue).
					Str("message_id", d.MessageId).
					Interface("panic", r).
					Msg("Handler panicked, dead-lettering message")
			}
		}()
		verdict = handler(Delivery{
			MessageID:     d.MessageId,
			CorrelationID: d.CorrelationId,
			RoutingKey:    d.RoutingKey,
			Redelivered:   d.Redelivered,
			Headers:       map[string]interface{}(d.Headers),
			Body:          d.Body,
		})
	}()

	var err error
	switch verdict {
	case Ack:
		err = d.Ack(false)
	case Requeue:
		err = d.Nack(false, true)
	default:
		err = d.Nack(false, false)
	}
	if err != nil {
		f.logger.Warn().Err(err).Str("queue", queue).Msg("Failed to settle delivery")
		return
	}
	metrics.MessagesConsumed.WithLabelValues(queue, verdict.String()).Inc()
}

// Receive polls queue for a single message until timeout. The message
// is acknowledged before return. Returns false when the queue stayed
// empty.
func (f *Fabric) Receive(ctx context.Context, queue string, timeout time.Duration) (*Delivery, bool, error) {
	deadline := time.Now().Add(timeout)

	conn := f.connection()
	if conn == nil {
		return nil, false, fmt.Errorf("broker unavailable")
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, false, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	for {
		msg, ok, err := ch.Get(queue, true)
		if err != nil {
			return nil, false, fmt.Errorf("failed to poll %s: %w", queue, err)
		}
		if ok {
			return &Delivery{
				MessageID:     msg.MessageId,
				CorrelationID: msg.CorrelationId,
				RoutingKey:    msg.RoutingKey,
				Redelivered:   msg.Redelivered,
				Headers:       map[string]interface{}(msg.Headers),
				Body:          msg.Body,
			}, true, nil
		}
		if time.Now().After(deadline) {
			return nil, false, nil
		}
		if !f.sleep(ctx, channelWaitInterval) {
			return nil, false, ctx.Err()
		}
	}
}

// QueueFor resolves a purpose queue name against this fabric's config
func (f *Fabric) QueueFor(p Purpose) string {
	return QueueName(f.cfg, p)
}

// sleep waits for d, returning false if ctx or the fabric closed first
func (f *Fabric) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-f.closed:
		return false
	case <-time.After(d):
		return true
	}
}

// Close shuts the fabric down and waits for consumers to drain
func (f *Fabric) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })

	f.mu.Lock()
	conn := f.conn
	f.conn = nil
	f.mu.Unlock()

	if conn != nil && !conn.IsClosed() {
		conn.Close()
	}
	f.wg.Wait()

	for {
		select {
		case ch := <-f.pubPool:
			ch.Close()
			continue
		default:
		}
		return nil
	}
}

// DeclareAgentQueue declares and binds this agent's delivery queue:
// addressed commands (command.*.{agentId}) and priority commands
// (priority.command.{agentId}) land here. Idempotent; the agent calls
// it on every connect. Returns the queue name to consume.
func (f *Fabric) DeclareAgentQueue(agentID string) (string, error) {
	conn := f.connection()
	if conn == nil {
		return "", fmt.Errorf("broker unavailable")
	}
	ch, err := conn.Channel()
	if err != nil {
		return "", fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	name := AgentQueueName(f.cfg, agentID)
	args := amqp.Table{
		"x-dead-letter-exchange": f.cfg.DLX,
		"x-message-ttl":          f.cfg.MessageTTL.Milliseconds(),
		"x-max-length":           int64(maxQueueLength),
		"x-max-priority":         int64(maxPriority),
	}
	if _, err := ch.QueueDeclare(name, true, false, false, false, args); err != nil {
		return "", fmt.Errorf("failed to declare agent queue %s: %w", name, err)
	}

	bindings := []string{
		fmt.Sprintf("command.*.%s", agentID),
		PriorityKey(agentID),
	}
	for _, key := range bindings {
		if err := ch.QueueBind(name, key, f.cfg.Exchange, false, nil); err != nil {
			return "", fmt.Errorf("failed to bind agent queue %s to %s: %w", name, key, err)
		}
	}
	return name, nil
}
