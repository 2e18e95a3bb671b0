package natsexec

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"

	"windratio/internal/reducer"
)

// Worker consumes resample jobs from the cluster subject as part of the
// worker queue group, runs the single-pass reduction and replies with the
// result table. Multiple workers on the same subject share the load.
type Worker struct {
	conn    *nats.Conn
	subject string
	queue   string
}

// NewWorker creates a worker on the default subject and queue group.
func NewWorker(conn *nats.Conn) *Worker {
	return NewWorkerOn(conn, DefaultSubject, DefaultQueue)
}

// NewWorkerOn creates a worker on a specific subject and queue group.
func NewWorkerOn(conn *nats.Conn, subject, queue string) *Worker {
	return &Worker{conn: conn, subject: subject, queue: queue}
}

// Start subscribes the worker; it serves until the subscription is
// drained or unsubscribed.
func (w *Worker) Start() (*nats.Subscription, error) {
	return w.conn.QueueSubscribe(w.subject, w.queue, w.handle)
}

func (w *Worker) handle(msg *nats.Msg) {
	job, err := reducer.DecodeJob(msg.Data)
	if err != nil {
		w.respondError(msg, err)
		return
	}
	table, err := reducer.ComputeSingle(job.Table, job.Spec)
	if err != nil {
		w.respondError(msg, err)
		return
	}
	data, err := json.Marshal(reply{Table: table})
	if err != nil {
		w.respondError(msg, err)
		return
	}
	if err := msg.Respond(data); err != nil {
		log.Printf("worker: respond failed: %v", err)
	}
}

func (w *Worker) respondError(msg *nats.Msg, err error) {
	log.Printf("worker: job failed: %v", err)
	data, merr := json.Marshal(reply{Error: err.Error()})
	if merr != nil {
		return
	}
	if rerr := msg.Respond(data); rerr != nil {
		log.Printf("worker: respond failed: %v", rerr)
	}
}
