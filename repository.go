/*
 *    Copyright 2025 Jeff Galyan
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package keonk

import "sync"

// Keonk is a stored resource record. Its shape is whatever the client sent.
type Keonk map[string]any

// Repository is the in-memory, insertion-ordered keonk collection. It lives
// for the lifetime of the process.
type Repository struct {
	mu     sync.RWMutex
	keonks []Keonk
}

func NewRepository() *Repository { return &Repository{} }

// Create appends k to the collection.
func (s *Repository) Create(k Keonk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keonks = append(s.keonks, k)
}

// FindAll returns every record in insertion order. The slice is a snapshot
// and is never nil; the records themselves are shared.
func (s *Repository) FindAll() []Keonk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Keonk, len(s.keonks))
	copy(out, s.keonks)
	return out
}

// Len reports the number of stored records.
func (s *Repository) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keonks)
}
