package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

var (
	ErrStatusCodeMismatch  = errors.New("status code mismatch")
	ErrContentTypeMismatch = errors.New("content type mismatch")
	ErrRequestFailed       = errors.New("request failed")
)

// MakePost makes a post request with serialized 'out' structure which is send to the given 'url'.
// 'in' is a pointer to the structure to be deserialized from the received json data, may be nil.
// The request is bounded by timeout or by the context deadline whichever comes first,
// canceling the context returns immediately with the context error.
func MakePost(ctx context.Context, timeout time.Duration, url string, out, in any) error {
	raw, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return roundTrip(ctx, timeout, fasthttp.MethodPost, url, raw, in)
}

// MakeGet makes a get request to the given 'url'.
// 'in' is a pointer to the structure to be deserialized from the received json data, may be nil.
// Timeout and cancellation behave as in MakePost.
func MakeGet(ctx context.Context, timeout time.Duration, url string, in any) error {
	return roundTrip(ctx, timeout, fasthttp.MethodGet, url, nil, in)
}

type result struct {
	status      int
	contentType []byte
	body        []byte
	err         error
}

func roundTrip(ctx context.Context, timeout time.Duration, method, url string, body []byte, in any) error {
	timeout, err := effectiveTimeout(ctx, timeout)
	if err != nil {
		return err
	}

	done := make(chan result, 1)
	go func() {
		req := fasthttp.AcquireRequest()
		defer fasthttp.ReleaseRequest(req)
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(url)
		req.Header.SetMethod(method)
		req.Header.Set("accept", "application/json")
		if body != nil {
			req.Header.SetContentType("application/json")
			req.SetBody(body)
		}

		if err := fasthttp.DoTimeout(req, resp, timeout); err != nil {
			done <- result{err: errors.Join(ErrRequestFailed, err)}
			return
		}
		done <- result{
			status:      resp.StatusCode(),
			contentType: append([]byte(nil), resp.Header.Peek("Content-Type")...),
			body:        append([]byte(nil), resp.Body()...),
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-done:
		if r.err != nil {
			return r.err
		}
		return readResponse(r, in)
	}
}

func readResponse(r result, in any) error {
	switch r.status {
	case fasthttp.StatusOK, fasthttp.StatusCreated, fasthttp.StatusAccepted:
	case fasthttp.StatusNoContent:
		return nil
	default:
		return errors.Join(
			ErrStatusCodeMismatch,
			fmt.Errorf("expected status code %d but got %d: %s", fasthttp.StatusOK, r.status, r.body))
	}

	if in == nil {
		return nil
	}

	if bytes.Index(r.contentType, []byte("application/json")) != 0 {
		return errors.Join(
			ErrContentTypeMismatch,
			fmt.Errorf("expected content type application/json but got %s", r.contentType))
	}

	return json.Unmarshal(r.body, in)
}

func effectiveTimeout(ctx context.Context, timeout time.Duration) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout || timeout <= 0 {
			timeout = left
		}
	}
	if timeout <= 0 {
		return 0, context.DeadlineExceeded
	}
	return timeout, nil
}
