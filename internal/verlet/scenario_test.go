package verlet_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/verlet"
)

func hangingRope(n int, spacing float64) *verlet.World {
	w := verlet.NewWorld()
	for i := 0; i < n; i++ {
		w.AddPoint(geom.V(100, 100+float64(i)*spacing), i == 0)
		if i > 0 {
			_, err := w.AddLink(i-1, i)
			Expect(err).NotTo(HaveOccurred())
		}
	}
	return w
}

var _ = Describe("World", func() {
	Describe("a five point rope hanging from its first point", func() {
		var w *verlet.World

		BeforeEach(func() {
			w = hangingRope(5, 20)
			for i := 0; i < 100; i++ {
				w.Step(16)
			}
		})

		It("stays finite", func() {
			Expect(w.Valid()).To(BeTrue())
		})

		It("keeps every link near its rest length", func() {
			for i := range w.Links {
				Expect(w.Links[i].Length(w.Points)).To(BeNumerically("~", w.Links[i].Rest, 1.0))
			}
		})

		It("hangs below the anchor", func() {
			anchor := w.Points[0].Pos
			Expect(anchor).To(Equal(geom.V(100, 100)))
			for i := 1; i < len(w.Points); i++ {
				Expect(w.Points[i].Pos.Y).To(BeNumerically(">=", w.Points[i-1].Pos.Y))
				Expect(w.Points[i].Pos.X).To(BeNumerically("~", anchor.X, 1e-9))
			}
		})
	})

	Describe("a rope released horizontally", func() {
		It("swings without tearing apart", func() {
			w := verlet.NewWorld()
			for i := 0; i < 5; i++ {
				w.AddPoint(geom.V(100+float64(i)*20, 100), i == 0)
				if i > 0 {
					w.AddLink(i-1, i)
				}
			}

			for step := 0; step < 300; step++ {
				w.Step(16)
				Expect(w.Valid()).To(BeTrue())
				for i := range w.Links {
					Expect(w.Links[i].Length(w.Points)).To(BeNumerically("~", 20, 2.0))
				}
			}
			Expect(w.Points[4].Pos.Y).To(BeNumerically(">", 100))
		})
	})

	Describe("cutting the middle of a three link chain", func() {
		var w *verlet.World

		BeforeEach(func() {
			w = verlet.NewWorld()
			for i := 0; i < 4; i++ {
				w.AddPoint(geom.V(float64(i)*10, 0), i == 0 || i == 3)
			}
			for i := 1; i < 4; i++ {
				w.AddLink(i-1, i)
			}
			Expect(w.Cut(geom.V(15, -5), geom.V(15, 5))).To(Equal(1))
		})

		It("severs only the crossed link", func() {
			w.Step(16)
			Expect(w.Links[0].Dead).To(BeFalse())
			Expect(w.Links[1].Dead).To(BeTrue())
			Expect(w.Links[2].Dead).To(BeFalse())
		})

		It("stops constraining the two halves", func() {
			w.Points[2].Pos = geom.V(20, 100)
			w.Points[2].Prev = geom.V(20, 100)
			w.Points[2].HasPrev = true

			w.Step(16)

			gap := w.Points[1].Pos.Dist(w.Points[2].Pos)
			Expect(gap).To(BeNumerically(">", 15))
			Expect(w.Links[0].Length(w.Points)).To(BeNumerically("~", 10, 1.0))
		})

		It("leaves a severed link alone on repeated cuts", func() {
			before := w.Links[1]
			Expect(w.Cut(geom.V(15, -5), geom.V(15, 5))).To(Equal(0))
			Expect(w.Links[1]).To(Equal(before))
		})
	})

	Describe("locked points", func() {
		It("never move under integration or relaxation", func() {
			w := verlet.NewWorld()
			a := w.AddPoint(geom.V(0, 0), true)
			b := w.AddPoint(geom.V(50, 0), true)
			c := w.AddPoint(geom.V(25, 10), false)
			w.AddLink(a, c)
			w.AddLink(c, b)
			w.AddLink(a, b)

			for i := 0; i < 500; i++ {
				w.Step(16)
			}

			Expect(w.Points[a].Pos).To(Equal(geom.V(0, 0)))
			Expect(w.Points[b].Pos).To(Equal(geom.V(50, 0)))
		})
	})
})
