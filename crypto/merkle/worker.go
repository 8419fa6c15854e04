// Copyright (C) 2024-2025 The minahash Authors
// This file is part of minahash
//
// minahash is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// minahash is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with minahash.  If not, see <https://www.gnu.org/licenses/>.

package merkle

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// workerState describes a group of goroutines processing a sequential list
// of maxidx elements starting from 0.
type workerState struct {
	// maxidx is the total number of elements to process, and nextidx
	// is the next element that a worker should process.
	maxidx  uint64
	nextidx atomic.Uint64

	// nworkers is the number of workers that can still be started.
	nworkers int

	// starting is a channel that paces the creation of workers.
	starting chan struct{}

	// wg tracks outstanding workers.
	wg sync.WaitGroup
}

func newWorkerState(max uint64, nworkers int) *workerState {
	if nworkers <= 0 {
		nworkers = runtime.NumCPU()
	}
	ws := &workerState{
		maxidx:   max,
		nworkers: nworkers,
		starting: make(chan struct{}, 1),
	}
	ws.starting <- struct{}{}
	return ws
}

// next returns the next position to process, reserving delta positions
// starting from it for the caller.
func (ws *workerState) next(delta uint64) uint64 {
	return ws.nextidx.Add(delta) - delta
}

// wait waits for all of the workers to finish.
func (ws *workerState) wait() {
	ws.wg.Wait()
}

// nextWorker reports whether another worker should be started. A new
// worker is only started once the previous one has begun taking work,
// and only while work remains.
func (ws *workerState) nextWorker() bool {
	if ws.nworkers <= 0 {
		return false
	}

	<-ws.starting

	if ws.nextidx.Load() >= ws.maxidx {
		return false
	}

	ws.nworkers--
	ws.wg.Add(1)
	return true
}

// started is called by a worker once it has started.
func (ws *workerState) started() {
	ws.starting <- struct{}{}
}
