package queue

import "errors"

var (
	// ErrEmpty is returned by Front, Back and Pop on an empty queue.
	ErrEmpty = errors.New("queue: empty queue")

	// ErrConstruction wraps the error of an element constructor passed to PushFunc.
	ErrConstruction = errors.New("queue: element construction failed")
)
