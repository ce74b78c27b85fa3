package wss

// Subscriber 業務層的事件接收者。
// 回呼在各連線自己的 goroutine 上執行，實作必須是 Thread-Safe。
type Subscriber interface {
	OnConnect(conn Client)
	OnDisconnect(conn Client)
	OnMessage(conn Client, msg []byte)
}
