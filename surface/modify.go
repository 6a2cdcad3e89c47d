package surface

import (
	"nurbskit.dev/kernel/curve"
	"nurbskit.dev/kernel/geom"
	"nurbskit.dev/kernel/knot"
)

// insertU refines the surface's u knot vector at t to multiplicity
// p_u+1, by applying curve knot refinement independently to each v
// column of control points (valid because a tensor-product surface's u
// and v directions act independently), and returns the refined
// surface together with the index of the (now single) control-point
// row at t.
func (s Surface) insertU(t float64) (Surface, int, error) {
	p := s.degreeU
	mult := s.knotsU.Multiplicity(t)
	var xs []float64
	for i := mult; i < p+1; i++ {
		xs = append(xs, t)
	}
	if len(xs) == 0 {
		idx := 0
		for s.knotsU[idx] < t-geom.Eps {
			idx++
		}
		return s, idx, nil
	}

	var newKU knot.Vector
	newNumU := 0
	cols := make([][]geom.Point4, s.numV)
	for j := 0; j < s.numV; j++ {
		c, err := curve.New(p, s.knotsU, s.col(j))
		if err != nil {
			return Surface{}, 0, err
		}
		refined, err := c.RefineKnots(xs)
		if err != nil {
			return Surface{}, 0, err
		}
		newKU = refined.Knots()
		newNumU = refined.NumControlPoints()
		cols[j] = refined.ControlPoints()
	}

	cps := make([]geom.Point4, newNumU*s.numV)
	for i := 0; i < newNumU; i++ {
		for j := 0; j < s.numV; j++ {
			cps[i*s.numV+j] = cols[j][i]
		}
	}
	out, err := New(p, s.degreeV, newKU, s.knotsV, newNumU, s.numV, cps)
	if err != nil {
		return Surface{}, 0, err
	}
	firstIdx := 0
	for out.knotsU[firstIdx] < t-geom.Eps {
		firstIdx++
	}
	return out, firstIdx, nil
}

// insertV is insertU's mirror for the v direction.
func (s Surface) insertV(t float64) (Surface, int, error) {
	p := s.degreeV
	mult := s.knotsV.Multiplicity(t)
	var xs []float64
	for i := mult; i < p+1; i++ {
		xs = append(xs, t)
	}
	if len(xs) == 0 {
		idx := 0
		for s.knotsV[idx] < t-geom.Eps {
			idx++
		}
		return s, idx, nil
	}

	var newKV knot.Vector
	newNumV := 0
	rows := make([][]geom.Point4, s.numU)
	for i := 0; i < s.numU; i++ {
		c, err := curve.New(p, s.knotsV, s.row(i))
		if err != nil {
			return Surface{}, 0, err
		}
		refined, err := c.RefineKnots(xs)
		if err != nil {
			return Surface{}, 0, err
		}
		newKV = refined.Knots()
		newNumV = refined.NumControlPoints()
		rows[i] = refined.ControlPoints()
	}

	cps := make([]geom.Point4, s.numU*newNumV)
	for i := 0; i < s.numU; i++ {
		for j := 0; j < newNumV; j++ {
			cps[i*newNumV+j] = rows[i][j]
		}
	}
	out, err := New(s.degreeU, p, s.knotsU, newKV, s.numU, newNumV, cps)
	if err != nil {
		return Surface{}, 0, err
	}
	firstIdx := 0
	for out.knotsV[firstIdx] < t-geom.Eps {
		firstIdx++
	}
	return out, firstIdx, nil
}

// splitU divides the surface at u=t: the u-direction control points
// and knot vector are split exactly as curve.Split does (after
// refining t to multiplicity p_u+1), while the v-direction degree and
// knot vector carry through unchanged on both halves.
func (s Surface) splitU(t float64) (Surface, Surface, error) {
	refined, _, err := s.insertU(t)
	if err != nil {
		return Surface{}, Surface{}, err
	}
	p := refined.degreeU
	firstIdx := 0
	for refined.knotsU[firstIdx] < t-geom.Eps {
		firstIdx++
	}

	leftCPs := make([]geom.Point4, firstIdx*refined.numV)
	for i := 0; i < firstIdx; i++ {
		for j := 0; j < refined.numV; j++ {
			leftCPs[i*refined.numV+j] = refined.at(i, j)
		}
	}
	rightNumU := refined.numU - firstIdx
	rightCPs := make([]geom.Point4, rightNumU*refined.numV)
	for i := 0; i < rightNumU; i++ {
		for j := 0; j < refined.numV; j++ {
			rightCPs[i*refined.numV+j] = refined.at(i+firstIdx, j)
		}
	}
	leftKU := append(knot.Vector(nil), refined.knotsU[:firstIdx+p+1]...)
	rightKU := append(knot.Vector(nil), refined.knotsU[firstIdx:]...)

	left, err := New(p, refined.degreeV, leftKU, refined.knotsV, firstIdx, refined.numV, leftCPs)
	if err != nil {
		return Surface{}, Surface{}, err
	}
	right, err := New(p, refined.degreeV, rightKU, refined.knotsV, rightNumU, refined.numV, rightCPs)
	if err != nil {
		return Surface{}, Surface{}, err
	}
	return left, right, nil
}

// splitV is splitU's mirror for the v direction.
func (s Surface) splitV(t float64) (Surface, Surface, error) {
	refined, _, err := s.insertV(t)
	if err != nil {
		return Surface{}, Surface{}, err
	}
	p := refined.degreeV
	firstIdx := 0
	for refined.knotsV[firstIdx] < t-geom.Eps {
		firstIdx++
	}

	leftCPs := make([]geom.Point4, refined.numU*firstIdx)
	for i := 0; i < refined.numU; i++ {
		for j := 0; j < firstIdx; j++ {
			leftCPs[i*firstIdx+j] = refined.at(i, j)
		}
	}
	rightNumV := refined.numV - firstIdx
	rightCPs := make([]geom.Point4, refined.numU*rightNumV)
	for i := 0; i < refined.numU; i++ {
		for j := 0; j < rightNumV; j++ {
			rightCPs[i*rightNumV+j] = refined.at(i, j+firstIdx)
		}
	}
	leftKV := append(knot.Vector(nil), refined.knotsV[:firstIdx+p+1]...)
	rightKV := append(knot.Vector(nil), refined.knotsV[firstIdx:]...)

	left, err := New(refined.degreeU, p, refined.knotsU, leftKV, refined.numU, firstIdx, leftCPs)
	if err != nil {
		return Surface{}, Surface{}, err
	}
	right, err := New(refined.degreeU, p, refined.knotsU, rightKV, refined.numU, rightNumV, rightCPs)
	if err != nil {
		return Surface{}, Surface{}, err
	}
	return left, right, nil
}
