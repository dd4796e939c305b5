/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package basic

// LinkedHashMap keeps keys in insertion order. Updating an existing key keeps its position.
// Not safe for concurrent use.
type LinkedHashMap[V any] struct {
	itemMap map[string]*linkedHashMapNode[V]
	head    *linkedHashMapNode[V]
	tail    *linkedHashMapNode[V]
}

type linkedHashMapNode[V any] struct {
	key   string
	value V
	prev  *linkedHashMapNode[V]
	next  *linkedHashMapNode[V]
}

func NewLinkedHashMap[V any]() *LinkedHashMap[V] {
	return &LinkedHashMap[V]{
		itemMap: make(map[string]*linkedHashMapNode[V]),
	}
}

func (m *LinkedHashMap[V]) Put(k string, v V) {
	if n, ok := m.itemMap[k]; ok {
		n.value = v
		return
	}

	n := &linkedHashMapNode[V]{key: k, value: v, prev: m.tail}
	m.itemMap[k] = n
	if m.tail == nil {
		m.head = n
	} else {
		m.tail.next = n
	}
	m.tail = n
}

func (m *LinkedHashMap[V]) Get(k string) (V, bool) {
	if n, ok := m.itemMap[k]; ok {
		return n.value, true
	}
	var zero V
	return zero, false
}

func (m *LinkedHashMap[V]) Remove(k string) bool {
	n, ok := m.itemMap[k]
	if !ok {
		return false
	}

	if n.prev != nil {
		n.prev.next = n.next
	} else {
		m.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		m.tail = n.prev
	}
	delete(m.itemMap, k)
	return true
}

func (m *LinkedHashMap[V]) Size() int {
	return len(m.itemMap)
}

func (m *LinkedHashMap[V]) Contains(key string) bool {
	_, ok := m.itemMap[key]
	return ok
}

func (m *LinkedHashMap[V]) Keys() []string {
	res := make([]string, 0, len(m.itemMap))
	for p := m.head; p != nil; p = p.next {
		res = append(res, p.key)
	}
	return res
}

// Range stops early when fn returns false.
func (m *LinkedHashMap[V]) Range(fn func(key string, value V) bool) {
	for p := m.head; p != nil; p = p.next {
		if !fn(p.key, p.value) {
			return
		}
	}
}
