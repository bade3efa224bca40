// Package signals turns per-vehicle crossing records into the signal
// performance metrics shown on an intersection dashboard: arrivals on green,
// split failures and delay, each broken down by time-of-day peak.
//
// A Table is built once per intersection by Load and is read-only after
// that. Filter and the aggregators never mutate it; every call allocates its
// own result so concurrent requests need no locking.
package signals
