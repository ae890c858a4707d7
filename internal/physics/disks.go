package physics

import (
	"math"
	"math/rand"
)

// Domain is the side length of the square the disks live in. Positions
// are confined to [0, Domain] on both axes.
const Domain = 1.0

// maxPlacementTries bounds the rejection sampling for one disk's
// initial placement.
const maxPlacementTries = 2000

// place draws positions for disk i until it sits fully inside the
// domain and clear of disks 0..i-1. It reports false when no clear
// spot was found.
func place(rng *rand.Rand, pos, radii []float64, i int) bool {
	r := radii[i]
	for try := 0; try < maxPlacementTries; try++ {
		x := r + rng.Float64()*(Domain-2*r)
		y := r + rng.Float64()*(Domain-2*r)
		fits := true
		for j := 0; j < i; j++ {
			dx, dy := x-pos[2*j], y-pos[2*j+1]
			rr := r + radii[j]
			if dx*dx+dy*dy < rr*rr {
				fits = false
				break
			}
		}
		if fits {
			pos[2*i], pos[2*i+1] = x, y
			return true
		}
	}
	return false
}

// collidePair resolves one overlapping pair as an elastic disk
// collision with mass proportional to area, then separates the pair
// along the contact normal so no overlap survives.
func collidePair(pos, vel, radii []float64, i, j int) {
	dx := pos[2*j] - pos[2*i]
	dy := pos[2*j+1] - pos[2*i+1]
	rr := radii[i] + radii[j]
	d2 := dx*dx + dy*dy
	if d2 >= rr*rr {
		return
	}

	d := math.Sqrt(d2)
	var nx, ny float64
	if d > 0 {
		nx, ny = dx/d, dy/d
	} else {
		// coincident centers, pick an axis
		nx, ny = 1, 0
	}

	mi := radii[i] * radii[i]
	mj := radii[j] * radii[j]

	rvx := vel[2*j] - vel[2*i]
	rvy := vel[2*j+1] - vel[2*i+1]
	approach := rvx*nx + rvy*ny
	if approach < 0 {
		imp := 2 * approach / (mi + mj)
		vel[2*i] += imp * mj * nx
		vel[2*i+1] += imp * mj * ny
		vel[2*j] -= imp * mi * nx
		vel[2*j+1] -= imp * mi * ny
	}

	overlap := rr - d
	pi := overlap * mj / (mi + mj)
	pj := overlap * mi / (mi + mj)
	pos[2*i] -= nx * pi
	pos[2*i+1] -= ny * pi
	pos[2*j] += nx * pj
	pos[2*j+1] += ny * pj
}

// collideAll sweeps every pair once.
func collideAll(pos, vel, radii []float64, n int) {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			collidePair(pos, vel, radii, i, j)
		}
	}
}

// reflectWalls bounces disks off the domain walls, clamping centers so
// every disk sits fully inside.
func reflectWalls(pos, vel, radii []float64, n int) {
	for i := 0; i < n; i++ {
		r := radii[i]
		x, y := pos[2*i], pos[2*i+1]
		vx, vy := vel[2*i], vel[2*i+1]

		if x-r < 0 {
			x = r
			vx = math.Abs(vx)
		} else if x+r > Domain {
			x = Domain - r
			vx = -math.Abs(vx)
		}
		if y-r < 0 {
			y = r
			vy = math.Abs(vy)
		} else if y+r > Domain {
			y = Domain - r
			vy = -math.Abs(vy)
		}

		pos[2*i], pos[2*i+1] = x, y
		vel[2*i], vel[2*i+1] = vx, vy
	}
}

func clamp(v, bound float64) float64 {
	if v > bound {
		return bound
	}
	if v < -bound {
		return -bound
	}
	return v
}
