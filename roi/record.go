package roi

// Record is an ordered mapping from metric name to scalar value for one ROI.
// Insertion order is preserved so persisted tables keep stable columns; NaN
// and +Inf values pass through untouched, they are documented sentinels.
type Record struct {
	names  []string
	values map[string]float64
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]float64)}
}

// Set stores a metric, preserving first-insertion order.
func (r *Record) Set(name string, value float64) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// Get returns a metric value and whether it is present.
func (r *Record) Get(name string) (float64, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns the metric names in insertion order.
func (r *Record) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Len returns the number of metrics.
func (r *Record) Len() int {
	return len(r.names)
}
