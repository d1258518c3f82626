// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics exposes process wide meters. Until Init is called every
// meter is a no-op, so packages may declare meters freely.
package metrics

import (
	"net/http"
	"sync"
)

var (
	mu      sync.RWMutex
	service Service = noopService{}
)

// Service creates and serves meters.
type Service interface {
	Counter(name string) CountMeter
	CounterVec(name string, labels []string) CountVecMeter
	Gauge(name string) GaugeMeter
	GaugeVec(name string, labels []string) GaugeVecMeter
	HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter
	Handler() http.Handler
}

// Standard histogram buckets, in milliseconds.
var (
	BucketExecution = []int64{0, 1, 2, 5, 10, 20, 50, 100, 250, 500, 1000}
	BucketHTTPReqs  = []int64{
		0, 1, 2, 5, 10, 20, 30, 50, 75, 100,
		150, 200, 300, 400, 500, 750, 1000,
		1500, 2000, 3000, 5000, 10000,
	}
)

// CountMeter is a monotonically increasing counter.
type CountMeter interface {
	Add(int64)
}

// CountVecMeter is a counter partitioned by labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter is a value which can arbitrarily go up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

// GaugeVecMeter is a gauge partitioned by labels.
type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

// HistogramVecMeter aggregates observations into buckets, partitioned by labels.
type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

func current() Service {
	mu.RLock()
	defer mu.RUnlock()
	return service
}

func Counter(name string) CountMeter { return current().Counter(name) }

func CounterVec(name string, labels []string) CountVecMeter {
	return current().CounterVec(name, labels)
}

func Gauge(name string) GaugeMeter { return current().Gauge(name) }

func GaugeVec(name string, labels []string) GaugeVecMeter {
	return current().GaugeVec(name, labels)
}

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return current().HistogramVec(name, labels, buckets)
}

// HTTPHandler returns the handler serving the collected meters.
func HTTPHandler() http.Handler {
	return current().Handler()
}

// Enabled reports whether meters are collected.
func Enabled() bool {
	_, noop := current().(noopService)
	return !noop
}

// Lazy defers the creation of a meter to its first use, so package level
// meters bind to the service installed by Init.
func Lazy[T any](f func() T) func() T {
	var (
		result T
		once   sync.Once
	)
	return func() T {
		once.Do(func() {
			result = f()
		})
		return result
	}
}

func LazyCounterVec(name string, labels []string) func() CountVecMeter {
	return Lazy(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyGauge(name string) func() GaugeMeter {
	return Lazy(func() GaugeMeter { return Gauge(name) })
}

func LazyGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return Lazy(func() GaugeVecMeter { return GaugeVec(name, labels) })
}

func LazyHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return Lazy(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}
