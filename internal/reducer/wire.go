package reducer

import (
	"encoding/json"
	"fmt"

	"windratio/domain/scada"
)

// Job is the self-contained wire form of one resample pass: the resolved
// spec plus the already-resampled observation table. Remote workers decode
// it and run ComputeSingle without any other context.
type Job struct {
	Index int          `json:"index"`
	Spec  Spec         `json:"spec"`
	Table *scada.Table `json:"table"`
}

// EncodeJob serializes a resample pass for transport.
func EncodeJob(index int, spec Spec, table *scada.Table) ([]byte, error) {
	return json.Marshal(Job{Index: index, Spec: spec, Table: table})
}

// DecodeJob deserializes a resample pass received from transport.
func DecodeJob(data []byte) (*Job, error) {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	if job.Table == nil {
		return nil, fmt.Errorf("decode job: missing table")
	}
	return &job, nil
}
