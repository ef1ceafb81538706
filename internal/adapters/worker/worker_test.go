package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	worker "github.com/sohrab4u/consultation/internal/adapters/worker"
	logging "github.com/sohrab4u/consultation/pkg/logger"
)

func TestPool_Run(t *testing.T) {
	convey.Convey("Given a pool of four workers", t, func() {
		_ = logging.Init()
		pool := worker.NewPool(worker.WithSize(4), worker.WithName("test-pool"))

		convey.Convey("When running more jobs than workers", func() {
			out := make([]int, 100)
			err := pool.Run(context.Background(), len(out), func(_ context.Context, i int) {
				out[i] = i * i
			})

			convey.Convey("Then every slot should be written in place", func() {
				convey.So(err, convey.ShouldBeNil)
				for i, v := range out {
					convey.So(v, convey.ShouldEqual, i*i)
				}
			})
		})

		convey.Convey("When running fewer jobs than workers", func() {
			var calls int32
			err := pool.Run(context.Background(), 2, func(_ context.Context, _ int) {
				atomic.AddInt32(&calls, 1)
			})

			convey.Convey("Then each job should run once", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(atomic.LoadInt32(&calls), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When there are no jobs", func() {
			err := pool.Run(context.Background(), 0, func(_ context.Context, _ int) {
				panic("must not run")
			})
			convey.So(err, convey.ShouldBeNil)
		})

		convey.Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			var calls int32
			err := pool.Run(ctx, 1000, func(_ context.Context, _ int) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(time.Millisecond)
			})

			convey.Convey("Then it should stop and report ErrStopped", func() {
				convey.So(errors.Is(err, worker.ErrStopped), convey.ShouldBeTrue)
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
				convey.So(atomic.LoadInt32(&calls), convey.ShouldBeLessThan, 1000)
			})
		})
	})

	convey.Convey("Given a pool with default options", t, func() {
		_ = logging.Init()
		pool := worker.NewPool(worker.WithSize(0))

		convey.Convey("Then it should have at least one worker", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThanOrEqualTo, 1)
		})
	})
}
