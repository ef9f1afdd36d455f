// Package cache 实现了学习型应答缓存：按插入顺序保存“问题 -> 回答”，
// 容量固定，超出容量时按 FIFO 淘汰最早插入的条目。
package cache

import (
	"container/list"
	"sync"
)

// DefaultCapacity 是未指定容量时的缓存上限。
const DefaultCapacity = 1000

type entry struct {
	question string
	answer   string
}

// ResponseCache 是并发安全的有序映射。
// 对已存在的 key 重复 Put 只更新值，不改变其插入顺序，因此它仍按最初的插入时间被淘汰。
type ResponseCache struct {
	mu       sync.RWMutex
	capacity int
	order    *list.List // 元素为 *entry，Front 为最早插入
	index    map[string]*list.Element
}

// New 创建一个容量为 capacity 的空缓存；capacity <= 0 时使用 DefaultCapacity。
func New(capacity int) *ResponseCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ResponseCache{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Get 按 key 精确查找（区分大小写），没有副作用。
func (c *ResponseCache) Get(question string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	el, ok := c.index[question]
	if !ok {
		return "", false
	}
	return el.Value.(*entry).answer, true
}

// Put 插入或覆盖一条记录，并在写锁内淘汰最早的条目直到 size <= capacity。
func (c *ResponseCache) Put(question, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[question]; ok {
		el.Value.(*entry).answer = answer
		return
	}
	c.index[question] = c.order.PushBack(&entry{question: question, answer: answer})

	for c.order.Len() > c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.index, oldest.Value.(*entry).question)
	}
}

// Keys 按插入顺序返回所有 key 的快照。
func (c *ResponseCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry).question)
	}
	return keys
}

// Values 按插入顺序返回所有回答的快照。
func (c *ResponseCache) Values() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	values := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		values = append(values, el.Value.(*entry).answer)
	}
	return values
}

// Oldest 返回当前最早插入条目的回答，即 Values() 的第一个元素。
func (c *ResponseCache) Oldest() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	front := c.order.Front()
	if front == nil {
		return "", false
	}
	return front.Value.(*entry).answer, true
}

// Match 在同一把读锁内完成“扫描 key -> 读取回答”，
// find 接收按插入顺序排列的 key，返回命中的 key。
func (c *ResponseCache) Match(find func(keys []string) (string, bool)) (question, answer string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry).question)
	}
	question, ok = find(keys)
	if !ok {
		return "", "", false
	}
	el, ok := c.index[question]
	if !ok {
		return "", "", false
	}
	return question, el.Value.(*entry).answer, true
}

// Len 返回当前条目数。
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

// Capacity 返回缓存上限。
func (c *ResponseCache) Capacity() int {
	return c.capacity
}
