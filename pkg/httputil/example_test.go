package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gemdiff/perturbviz/pkg/httputil"
)

func ExampleRetry() {
	attempts := 0
	err := httputil.Retry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		if attempts < 3 {
			return &httputil.RetryableError{Err: errors.New("503 service unavailable")}
		}
		return nil
	})

	fmt.Println("Error:", err)
	fmt.Println("Attempts:", attempts)
	// Output:
	// Error: <nil>
	// Attempts: 3
}

func ExampleRetry_permanent() {
	attempts := 0
	err := httputil.Retry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		return errors.New("400 bad request")
	})

	fmt.Println("Error:", err)
	fmt.Println("Attempts:", attempts)
	// Output:
	// Error: 400 bad request
	// Attempts: 1
}
