package enforce

import (
	"fmt"
	"math"
	"runtime"

	"github.com/rs/zerolog/log"
)

func init() {
	checkCompiler()
}

// ENFORCE helper to halt program on error. A tripped ENFORCE means the core
// was handed a state it must never produce itself; there is nothing sensible
// to do but abort with enough context to find the call site.
func ENFORCE(query interface{}, args ...interface{}) {
	switch t := query.(type) {
	case bool:
		{
			if !t {
				fail(args...)
			}
		}
	case error:
		{
			if t != nil {
				fail(append([]interface{}{t}, args...)...)
			}
		}
	case string:
		{
			fail(append([]interface{}{t}, args...)...)
		}
	case nil:
		// Allow nil to pass since we sometimes do enforce.ENFORCE(err) to ensure there is no error
		break
	default:
		fail(append([]interface{}{fmt.Sprintf("incorrect usage of enforce with type: %T - %v", t, t)}, args...)...)
	}
}

// ENFORCEERR is ENFORCE specialized for the common "this must not error" case.
func ENFORCEERR(err error) {
	if err != nil {
		fail(err)
	}
}

func fail(args ...interface{}) {
	_, file, line, ok := runtime.Caller(2)
	loc := "unknown location"
	if ok {
		loc = fmt.Sprintf("%s:%d", file, line)
	}
	log.Error().Msgf("ENFORCE failed at %s: %v", loc, args)
	panic(fmt.Sprintf("enforce: %s: %v", loc, args))
}

// checkCompiler Enforces a 64bit machine due to assumptions about sizeof(int).
func checkCompiler() {
	myint := int(math.MaxInt64) // Shouldn't compile on a 32 bit system.
	myint64 := int64(math.MaxInt64)
	ENFORCE(uint64(myint) == uint64(myint64), "Must be on 64 bit system.")
}
