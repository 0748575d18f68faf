package quote

import (
	"encoding/json"
	"fmt"
)

// encodeSnapshots marshals the JSON columns of q.
func encodeSnapshots(q Quote) (job, breakdown, insights []byte, err error) {
	if job, err = json.Marshal(q.Job); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal job: %w", err)
	}
	if breakdown, err = json.Marshal(q.Breakdown); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal breakdown: %w", err)
	}
	if insights, err = json.Marshal(q.Insights); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal insights: %w", err)
	}
	return job, breakdown, insights, nil
}

// decodeSnapshots fills the JSON-backed fields of q.
func decodeSnapshots(q *Quote, job, breakdown, insights []byte) error {
	if err := json.Unmarshal(job, &q.Job); err != nil {
		return fmt.Errorf("unmarshal job: %w", err)
	}
	if err := json.Unmarshal(breakdown, &q.Breakdown); err != nil {
		return fmt.Errorf("unmarshal breakdown: %w", err)
	}
	if err := json.Unmarshal(insights, &q.Insights); err != nil {
		return fmt.Errorf("unmarshal insights: %w", err)
	}
	return nil
}
