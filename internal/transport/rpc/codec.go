package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName gRPC content-subtype (application/grpc+json)
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec 讓 RoomRPC 不需要 .proto 產生碼，訊息直接以 JSON 編碼
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}
