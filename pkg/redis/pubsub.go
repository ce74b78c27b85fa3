package redis

import (
	"context"
	"log/slog"
)

// MessageHandler 訂閱訊息的處理函式
type MessageHandler func(payload []byte)

// Publish 發送訊息到指定頻道
//
// 參數:
//
//	channel: string - 目標頻道名稱
//	message: any - 字串、[]byte 或 go-redis 支援的型別
func (c *Client) Publish(ctx context.Context, channel string, message any) error {
	return c.rdb.Publish(ctx, channel, message).Err()
}

// Subscribe 訂閱頻道，並在背景 goroutine 中逐筆呼叫 handler。
// ctx 結束時取消訂閱；訂閱確認失敗時直接回傳錯誤。
func (c *Client) Subscribe(ctx context.Context, channel string, handler MessageHandler) error {
	pubsub := c.rdb.Subscribe(ctx, channel)

	// Receive 會等待直到接收到訂閱確認訊息或發生錯誤
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}

	go func() {
		<-ctx.Done()
		_ = pubsub.Close()
	}()

	go func() {
		ch := pubsub.Channel()
		for msg := range ch {
			func() {
				defer func() {
					if r := recover(); r != nil {
						slog.Error("pubsub handler panic", "channel", channel, "panic", r)
					}
				}()
				handler([]byte(msg.Payload))
			}()
		}
	}()

	return nil
}
