package interfaces

// ProducerHandler is what the auth service needs from the message broker.
// A nil producer skips publishing so mail delivery never blocks a request.
type ProducerHandler interface {
	PublishMessage(key, value []byte) error
}
