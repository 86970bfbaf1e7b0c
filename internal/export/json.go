// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"

	"github.com/jeranaias/rigchat/internal/model"
)

// JSONExporter exports transcripts as indented JSON.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a transcript to JSON. A nil message list is written as an
// empty array.
func (e *JSONExporter) Export(t Transcript) ([]byte, error) {
	if t.Session.SessionID == "" {
		return nil, fmt.Errorf("session has no id")
	}
	if t.Messages == nil {
		t.Messages = []model.Message{}
	}
	return json.MarshalIndent(t, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}
