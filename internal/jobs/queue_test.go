package jobs

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewRetrainJob_Fields(t *testing.T) {
	mc := 10
	job := NewRetrainJob(SourceScheduled, &mc, nil)

	if job.ID == "" {
		t.Fatalf("job id must be set")
	}
	if job.Source != SourceScheduled {
		t.Fatalf("source = %q", job.Source)
	}
	if job.EnqueuedAt.IsZero() {
		t.Fatalf("enqueued_at must be set")
	}
	if *job.MaxComponents != 10 || job.MaxIter != nil {
		t.Fatalf("params mismatch: %+v", job)
	}
}

func TestRetrainJob_JSONOmitsNilParams(t *testing.T) {
	payload, err := json.Marshal(NewRetrainJob(SourceManual, nil, nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(payload)
	if strings.Contains(s, "max_components") || strings.Contains(s, "max_iter") {
		t.Fatalf("nil params must be omitted from the wire payload: %s", s)
	}

	mi := 15
	payload, err = json.Marshal(NewRetrainJob(SourceManual, nil, &mi))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(payload), `"max_iter":15`) {
		t.Fatalf("provided param missing: %s", payload)
	}
}

func TestRetrainJob_RoundTrip(t *testing.T) {
	mc, mi := 20, 30
	in := NewRetrainJob(SourceManual, &mc, &mi)

	payload, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out RetrainJob
	if err := json.Unmarshal(payload, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ID != in.ID || out.Source != in.Source {
		t.Fatalf("identity mismatch: %+v vs %+v", out, in)
	}
	if *out.MaxComponents != 20 || *out.MaxIter != 30 {
		t.Fatalf("params mismatch: %+v", out)
	}
}
