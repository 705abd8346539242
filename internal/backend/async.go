package backend

import "fmt"

// RunAsync runs check on a new goroutine and reports through cb. A panic in
// check is turned into an error.
func RunAsync(check func() []Range, cb func(error, []Range)) {
	go func() {
		var (
			ranges []Range
			err    error
		)
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("check spelling: %v", rec)
				}
			}()
			ranges = check()
		}()
		if err != nil {
			cb(err, nil)
			return
		}
		cb(nil, ranges)
	}()
}
