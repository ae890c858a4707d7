package storage

// Run is a recorded position history: per sample the 1-based frame
// index and the packed planar positions.
type Run struct {
	Frames    []int
	Positions [][]float64
}

// Len reports the number of recorded samples.
func (r *Run) Len() int { return len(r.Frames) }

// Trajectory extracts the path of particle i, one point per sample.
func (r *Run) Trajectory(i int) [][2]float64 {
	path := make([][2]float64, 0, len(r.Positions))
	for _, pos := range r.Positions {
		if 2*i+1 >= len(pos) {
			break
		}
		path = append(path, [2]float64{pos[2*i], pos[2*i+1]})
	}
	return path
}

// Recorder captures synchronized frames as a simulation observer. A
// stride of n keeps every nth frame.
type Recorder struct {
	stride int
	run    Run
}

func NewRecorder(stride int) *Recorder {
	if stride < 1 {
		stride = 1
	}
	return &Recorder{stride: stride}
}

// Frame implements the observer contract. The positions slice is the
// caller's working buffer, so kept samples are copied.
func (r *Recorder) Frame(frame int, positions []float64) {
	if frame%r.stride != 0 {
		return
	}
	r.run.Frames = append(r.run.Frames, frame)
	r.run.Positions = append(r.run.Positions, append([]float64(nil), positions...))
}

// Run returns the recorded history.
func (r *Recorder) Run() *Run { return &r.run }
