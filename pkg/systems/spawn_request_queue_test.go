package systems

import "testing"

// TestSpawnRequestQueueFIFO 测试先进先出
func TestSpawnRequestQueueFIFO(t *testing.T) {
	q := NewSpawnRequestQueue()
	if _, ok := q.PopFront(); ok {
		t.Fatal("Expected PopFront on empty queue to fail")
	}

	for i := uint64(0); i < 5; i++ {
		q.Push(&SpawnRequest{Descriptor: basicEnemy(), Sequence: i})
	}
	if q.Len() != 5 {
		t.Fatalf("Expected 5 requests, got %d", q.Len())
	}

	for i := uint64(0); i < 5; i++ {
		req, ok := q.PopFront()
		if !ok {
			t.Fatalf("Expected request %d", i)
		}
		if req.Sequence != i {
			t.Errorf("Expected sequence %d, got %d", i, req.Sequence)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue, got %d", q.Len())
	}
}

// TestSpawnRequestQueueClear 测试清空不调用回调
func TestSpawnRequestQueueClear(t *testing.T) {
	q := NewSpawnRequestQueue()
	called := 0
	for i := 0; i < 3; i++ {
		q.Push(&SpawnRequest{
			Descriptor: basicEnemy(),
			Callback:   func(SpawnResult) { called++ },
		})
	}

	if n := q.Clear(); n != 3 {
		t.Errorf("Expected 3 dropped requests, got %d", n)
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue after clear, got %d", q.Len())
	}
	if called != 0 {
		t.Errorf("Clear must not invoke callbacks, got %d calls", called)
	}
	if n := q.Clear(); n != 0 {
		t.Errorf("Expected clearing an empty queue to drop 0, got %d", n)
	}
}
