package systems

import "container/list"

// SpawnRequestQueue 待放行请求的 FIFO 队列
//
// 仅在模拟线程上访问，不加锁；不支持取消单个请求，只能整体清空
type SpawnRequestQueue struct {
	requests *list.List
}

// NewSpawnRequestQueue 创建空队列
func NewSpawnRequestQueue() *SpawnRequestQueue {
	return &SpawnRequestQueue{
		requests: list.New(),
	}
}

// Push 将请求加入队尾
func (q *SpawnRequestQueue) Push(req *SpawnRequest) {
	q.requests.PushBack(req)
}

// PopFront 取出队首请求，队列为空时返回 false
func (q *SpawnRequestQueue) PopFront() (*SpawnRequest, bool) {
	front := q.requests.Front()
	if front == nil {
		return nil, false
	}
	q.requests.Remove(front)
	return front.Value.(*SpawnRequest), true
}

// Len 返回待处理数量
func (q *SpawnRequestQueue) Len() int {
	return q.requests.Len()
}

// Clear 丢弃所有待处理请求，不调用回调
//
// 返回：
//
//	被丢弃的请求数量
func (q *SpawnRequestQueue) Clear() int {
	n := q.requests.Len()
	q.requests.Init()
	return n
}
