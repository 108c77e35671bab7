package storage

import (
	"encoding/json"
	"errors"

	"hpfold/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func EncodeSeries(s model.SeriesRecord) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeSeries(data []byte) (model.SeriesRecord, error) {
	var series model.SeriesRecord
	if err := json.Unmarshal(data, &series); err != nil {
		return model.SeriesRecord{}, err
	}
	if err := checkVersion(series.VersionedRecord); err != nil {
		return model.SeriesRecord{}, err
	}
	return series, nil
}

func EncodeSnapshots(snapshots []model.SnapshotRecord) ([]byte, error) {
	return json.Marshal(snapshots)
}

func DecodeSnapshots(data []byte) ([]model.SnapshotRecord, error) {
	var snapshots []model.SnapshotRecord
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, err
	}
	for _, snapshot := range snapshots {
		if err := checkVersion(snapshot.VersionedRecord); err != nil {
			return nil, err
		}
	}
	return snapshots, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
