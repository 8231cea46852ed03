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

package keonk_test

import (
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	k "github.com/jrgalyan/keonk"
)

var _ = Describe("Repository", func() {
	It("starts empty", func() {
		repo := k.NewRepository()
		Expect(repo.FindAll()).NotTo(BeNil())
		Expect(repo.FindAll()).To(BeEmpty())
		Expect(repo.Len()).To(BeZero())
	})

	It("returns records in creation order", func() {
		repo := k.NewRepository()
		want := []k.Keonk{}
		for i := 0; i < 5; i++ {
			rec := k.Keonk{"n": i}
			want = append(want, rec)
			repo.Create(rec)
		}
		Expect(repo.FindAll()).To(Equal(want))
		Expect(repo.Len()).To(Equal(5))
	})

	It("keeps duplicates", func() {
		repo := k.NewRepository()
		repo.Create(k.Keonk{"a": 1})
		repo.Create(k.Keonk{"a": 1})
		Expect(repo.FindAll()).To(HaveLen(2))
	})

	It("returns the same content on repeated reads", func() {
		repo := k.NewRepository()
		repo.Create(k.Keonk{"a": "b"})
		first := repo.FindAll()
		Expect(repo.FindAll()).To(Equal(first))
	})

	It("hands out snapshots that later creates do not change", func() {
		repo := k.NewRepository()
		repo.Create(k.Keonk{"a": 1})
		snap := repo.FindAll()
		repo.Create(k.Keonk{"a": 2})
		Expect(snap).To(HaveLen(1))
		Expect(repo.FindAll()).To(HaveLen(2))
	})

	It("is safe for concurrent creates and reads", func() {
		repo := k.NewRepository()
		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					repo.Create(k.Keonk{"id": fmt.Sprintf("%d-%d", w, i)})
					_ = repo.FindAll()
				}
			}(w)
		}
		wg.Wait()
		Expect(repo.Len()).To(Equal(400))
	})
})
