// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cloudadapterpb

import (
	"encoding/json"
	"sync"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content subtype messages are exchanged with.
const CodecName = "json"

var registerCodecOnce sync.Once

type jsonCodec struct{}

// Name is part of the encoding.Codec interface.
func (jsonCodec) Name() string {
	return CodecName
}

// Marshal is part of the encoding.Codec interface.
func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal is part of the encoding.Codec interface.
func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// RegisterCodec registers the JSON codec with gRPC. It is safe to call
// more than once.
func RegisterCodec() {
	registerCodecOnce.Do(func() {
		encoding.RegisterCodec(jsonCodec{})
	})
}
