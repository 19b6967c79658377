package signalctx

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScope(t *testing.T) {
	t.Run("runs function and disposes", func(t *testing.T) {
		setup(t)
		log := []string{}

		s := NewRoot(func(*Scope) {
			NewEffect(func() {
				log = append(log, "effect")

				OnCleanup(func() { log = append(log, "cleanup") })
			})
		})

		log = append(log, "ran")
		s.Dispose()
		log = append(log, "disposed")

		assert.Equal(t, []string{
			"effect",
			"ran",
			"cleanup",
			"disposed",
		}, log)
	})

	t.Run("returns the closure result", func(t *testing.T) {
		setup(t)

		v := NewScope(func(*Scope) string {
			name := NewSignal("ada")
			return name.Read()
		})

		assert.Equal(t, "ada", v)
	})

	t.Run("nested scopes", func(t *testing.T) {
		setup(t)
		log := []string{}

		s := NewRoot(func(s *Scope) {
			s.OnCleanup(func() {
				log = append(log, "parent disposed")
			})

			child := NewRoot(func(c *Scope) {
				c.OnCleanup(func() {
					log = append(log, "child disposed")
				})
			})

			assert.Same(t, s.scope, child.Owner().scope)
		})

		s.Dispose()

		assert.Equal(t, []string{
			"child disposed",
			"parent disposed",
		}, log)
	})

	t.Run("sibling effects disposal order", func(t *testing.T) {
		setup(t)
		log := []string{}

		s := NewRoot(func(*Scope) {
			OnCleanup(func() {
				log = append(log, "cleanup")
			})

			NewEffect(func() {
				log = append(log, "running first")

				NewEffect(func() {
					log = append(log, "running nested")
					OnCleanup(func() { log = append(log, "cleanup nested") })
				})

				OnCleanup(func() { log = append(log, "cleanup first") })
			})

			NewEffect(func() {
				log = append(log, "running second")
				OnCleanup(func() { log = append(log, "cleanup second") })
			})
		})

		log = append(log, "ran")
		s.Dispose()
		log = append(log, "disposed")

		assert.Equal(t, []string{
			"running first",
			"running nested",
			"running second",
			"ran",
			"cleanup second",
			"cleanup nested",
			"cleanup first",
			"cleanup",
			"disposed",
		}, log)
	})

	t.Run("cleanup closures run in reverse order", func(t *testing.T) {
		setup(t)

		log := NewScope(func(s *Scope) []string {
			log := []string{}
			s.OnCleanup(func() { log = append(log, "first") })
			s.OnCleanup(func() { log = append(log, "second") })

			NewEffect(func() {
				OnCleanup(func() { log = append(log, "inner") })
			})

			s.CleanUp()
			return log
		})

		assert.Equal(t, []string{"inner", "second", "first"}, log)
	})

	t.Run("catches panics with OnError", func(t *testing.T) {
		setup(t)
		log := []string{}

		var errSignal *Signal[error]

		NewRoot(func(s *Scope) {
			s.OnError(func(err error) {
				v, _ := IsPanic(err)
				log = append(log, fmt.Sprintf("caught %v", v))
			})

			// no handler on the nested scope, the parent's is used
			NewRoot(func(*Scope) {
				errSignal = NewSignal[error](nil)

				NewEffect(func() {
					if e := errSignal.Read(); e != nil {
						panic(e)
					}
				})
			})
		})

		errSignal.Write(fmt.Errorf("oops"))

		assert.Equal(t, []string{
			"caught oops",
		}, log)
	})

	t.Run("disposal prevents effect re-runs", func(t *testing.T) {
		setup(t)
		log := []int{}

		count := NewSignal(0)

		s := NewRoot(func(*Scope) {
			NewEffect(func() {
				log = append(log, count.Read())
			})
		})

		count.Write(1)
		s.Dispose()

		// this should not trigger the effect
		count.Write(2)

		assert.Equal(t, []int{0, 1}, log)
	})

	t.Run("disposal during effect execution", func(t *testing.T) {
		setup(t)
		log := []int{}

		count := NewSignal(0)

		var s *Scope
		NewRoot(func(*Scope) {
			NewEffect(func() {
				if count.Read() > 0 {
					s.Dispose()
				}
			})
		})

		s = NewRoot(func(*Scope) {
			NewEffect(func() {
				log = append(log, count.Read())
			})
		})

		count.Write(1)

		assert.Equal(t, []int{0}, log)
	})

	t.Run("run adds to an existing scope", func(t *testing.T) {
		setup(t)
		log := []string{}

		count := NewSignal(0)
		s := NewRoot(func(*Scope) {})

		err := s.Run(func() error {
			_, err := NewEffect(func() {
				log = append(log, fmt.Sprintf("effect %d", count.Read()))
			})
			return err
		})
		assert.NoError(t, err)
		assert.Nil(t, CurrentScope())

		count.Write(1)
		s.Dispose()
		count.Write(2)

		assert.Equal(t, []string{"effect 0", "effect 1"}, log)
	})

	t.Run("current scope inside a computation", func(t *testing.T) {
		setup(t)

		var inner, outer *Scope
		NewRoot(func(s *Scope) {
			outer = s
			NewEffect(func() {
				inner = CurrentScope()
			})
		})

		assert.NotNil(t, inner)
		assert.Same(t, outer.scope, inner.Owner().scope)
	})

	t.Run("destroy tears everything down", func(t *testing.T) {
		setup(t)
		log := []string{}

		count := NewSignal(0)
		NewRoot(func(s *Scope) {
			s.OnCleanup(func() { log = append(log, "first") })
		})
		NewRoot(func(s *Scope) {
			s.OnCleanup(func() { log = append(log, "second") })
			NewEffect(func() { count.Read() })
		})

		Destroy()

		assert.Equal(t, []string{"second", "first"}, log)
		assert.Nil(t, CurrentScope())
	})
}
