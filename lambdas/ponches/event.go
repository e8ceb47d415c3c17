package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"

	"checadas.com/ponches/config"
	"checadas.com/ponches/infrastructure/filesystem"
	"github.com/aws/aws-lambda-go/events"
)

var errIgnored = errors.New("event ignored")

type ReportEvent struct {
	Bucket    string `json:"bucket"`
	Prefix    string `json:"prefix"`
	OutputKey string `json:"outputKey"`
	Format    string `json:"format"`
	Mode      string `json:"mode"`
	IDOrder   string `json:"idOrder"`
}

// parseEvent accepts either a ReportEvent or an S3 object notification. A
// notification selects the bucket and the folder of the uploaded object;
// uploads that are not punch files, such as the report itself, are ignored.
func parseEvent(raw json.RawMessage) (ReportEvent, error) {
	var s3Event events.S3Event
	if err := json.Unmarshal(raw, &s3Event); err == nil && len(s3Event.Records) > 0 && s3Event.Records[0].S3.Bucket.Name != "" {
		record := s3Event.Records[0].S3
		key, err := url.QueryUnescape(record.Object.Key)
		if err != nil {
			key = record.Object.Key
		}
		if !filesystem.IsPunchFile(key, nil) {
			return ReportEvent{}, fmt.Errorf("%w: %s is not a punch file", errIgnored, key)
		}
		prefix := path.Dir(key) + "/"
		if prefix == "./" {
			prefix = ""
		}
		return ReportEvent{Bucket: record.Bucket.Name, Prefix: prefix}, nil
	}

	var ev ReportEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return ev, fmt.Errorf("failed to unmarshal report event: %w", err)
	}
	return ev, nil
}

// apply copies the event onto cfg and validates the result. The report is
// written next to the punch files when no output key is given.
func (ev ReportEvent) apply(cfg *config.Config) error {
	if ev.Bucket != "" {
		cfg.Input.S3.Bucket = ev.Bucket
	}
	if ev.Prefix != "" {
		cfg.Input.S3.Prefix = ev.Prefix
	}
	if ev.Format != "" {
		cfg.Output.Format = ev.Format
	}
	if ev.Mode != "" {
		cfg.Output.Mode = ev.Mode
	}
	if ev.IDOrder != "" {
		cfg.IDOrder = ev.IDOrder
	}
	if ev.OutputKey != "" {
		cfg.Output.S3Key = ev.OutputKey
	}

	if cfg.Input.S3.Bucket == "" {
		return fmt.Errorf("%w: bucket is required", config.ErrInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Output.S3Key == "" {
		cfg.Output.S3Key = cfg.Input.S3.Prefix + "ponches" + cfg.ReportOptions().Format.Extension()
	}
	return nil
}
