package signalctx

import (
	"fmt"
)

func ExampleSignal() {
	defer Destroy()

	count := NewSignal(0)
	fmt.Println(count.Read())

	count.Write(10)
	fmt.Println(count.Read())

	// Output:
	// 0
	// 10
}

func ExampleNewComputed() {
	defer Destroy()

	count := NewSignal(1)

	var plustwo *Memo[int]
	NewRoot(func(*Scope) {
		double, _ := NewComputed(func() int {
			fmt.Println("doubling")
			return count.Read() * 2
		})
		plustwo, _ = NewComputed(func() int {
			fmt.Println("adding")
			return double.Read() + 2
		})
	})
	fmt.Println(plustwo.Read())

	count.Write(10)
	fmt.Println(plustwo.Read())

	// Output:
	// doubling
	// adding
	// 4
	// doubling
	// adding
	// 22
}

func ExampleNewEffect() {
	defer Destroy()

	first := NewSignal("Ada")
	last := NewSignal("Lovelace")

	NewRoot(func(*Scope) {
		NewEffect(func() {
			fmt.Println(first.Read(), last.Read())
		})
	})

	Batch(func() {
		first.Write("Grace")
		last.Write("Hopper")
	})

	// Output:
	// Ada Lovelace
	// Grace Hopper
}

func ExampleNewScope() {
	defer Destroy()

	log := NewScope(func(s *Scope) []int {
		a := NewSignal(1)
		b := NewSignal(2)
		sum, _ := NewComputed(func() int { return a.Read() + b.Read() })

		log := []int{}
		NewComputation(func(struct{}) struct{} {
			log = append(log, sum.Read())
			return struct{}{}
		}, struct{}{})

		a.Write(10)
		b.Write(20)
		return log
	})

	fmt.Println(log)

	// Output:
	// [3 12 30]
}
