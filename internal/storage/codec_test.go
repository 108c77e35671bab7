package storage

import (
	"errors"
	"testing"

	"hpfold/internal/lattice"
	"hpfold/internal/model"
)

func TestRunCodecRoundtrip(t *testing.T) {
	run := testRun("run-1", "2026-01-01T00:00:00Z")
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != run.ID || got.MinEnergy != run.MinEnergy || len(got.FinalFold) != len(run.FinalFold) {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestDecodeRunRejectsVersionMismatch(t *testing.T) {
	run := testRun("run-1", "2026-01-01T00:00:00Z")
	run.SchemaVersion = CurrentSchemaVersion + 1
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("got %v, want ErrVersionMismatch", err)
	}
}

func TestSeriesCodecRejectsVersionMismatch(t *testing.T) {
	series := model.SeriesRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion + 1},
		RunID:           "run-1",
		Energy:          []float64{0},
	}
	data, err := EncodeSeries(series)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeSeries(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("got %v, want ErrVersionMismatch", err)
	}
}

func TestSnapshotsCodecRoundtrip(t *testing.T) {
	snapshots := []model.SnapshotRecord{
		{VersionedRecord: currentVersion(), Step: 3, Fold: lattice.LinearFold(5)},
	}
	data, err := EncodeSnapshots(snapshots)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeSnapshots(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Step != 3 || len(got[0].Fold) != 5 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}

	snapshots[0].CodecVersion = CurrentCodecVersion + 1
	data, err = EncodeSnapshots(snapshots)
	if err != nil {
		t.Fatalf("encode stale: %v", err)
	}
	if _, err := DecodeSnapshots(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("got %v, want ErrVersionMismatch", err)
	}
}
