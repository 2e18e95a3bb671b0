// Package natsexec provides the distributed execution strategy: resample
// jobs fan out over NATS request/reply to a queue group of workers, each
// running the single-pass reduction and replying with its result table.
package natsexec

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"

	"windratio/domain/core"
	"windratio/domain/ratio"
	"windratio/ports"
)

const (
	// DefaultSubject is the request subject workers listen on.
	DefaultSubject = "windratio.jobs"

	// DefaultQueue is the worker queue group; NATS load-balances requests
	// across its members.
	DefaultQueue = "windratio-workers"
)

// reply is the wire envelope workers answer with.
type reply struct {
	Table *ratio.Table `json:"table,omitempty"`
	Error string       `json:"error,omitempty"`
}

// Cluster is the distributed worker-pool strategy.
type Cluster struct {
	conn        *nats.Conn
	subject     string
	maxInFlight int
	timeout     time.Duration
}

// Option configures a Cluster.
type Option func(*Cluster)

// WithSubject overrides the request subject.
func WithSubject(subject string) Option {
	return func(c *Cluster) { c.subject = subject }
}

// WithMaxInFlight bounds the number of outstanding requests.
func WithMaxInFlight(n int) Option {
	return func(c *Cluster) { c.maxInFlight = n }
}

// WithTimeout bounds how long one resample request may take.
func WithTimeout(d time.Duration) Option {
	return func(c *Cluster) { c.timeout = d }
}

// NewCluster creates the cluster strategy over an established NATS
// connection.
func NewCluster(conn *nats.Conn, opts ...Option) *Cluster {
	c := &Cluster{
		conn:        conn,
		subject:     DefaultSubject,
		maxInFlight: 16,
		timeout:     2 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cluster) Name() string { return "cluster" }

func (c *Cluster) RunMany(ctx context.Context, n int, job ports.ResampleJob) ([]ratio.Indexed, error) {
	tables := make([]*ratio.Table, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxInFlight)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			t, err := c.runOne(ctx, i, job)
			if err != nil {
				return core.NewExecutionError(i, err)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make([]ratio.Indexed, n)
	for i, t := range tables {
		out[i] = ratio.Indexed{Index: i, Table: t}
	}
	return out, nil
}

func (c *Cluster) runOne(ctx context.Context, index int, job ports.ResampleJob) (*ratio.Table, error) {
	payload, err := job.Payload(index)
	if err != nil {
		return nil, err
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	msg, err := c.conn.RequestWithContext(reqCtx, c.subject, payload)
	if err != nil {
		return nil, fmt.Errorf("cluster request: %w", err)
	}
	var rep reply
	if err := json.Unmarshal(msg.Data, &rep); err != nil {
		return nil, fmt.Errorf("decode worker reply: %w", err)
	}
	if rep.Error != "" {
		return nil, fmt.Errorf("worker: %s", rep.Error)
	}
	if rep.Table == nil {
		return nil, fmt.Errorf("worker reply carried no table")
	}
	return rep.Table, nil
}
