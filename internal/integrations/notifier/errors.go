package notifier

import "errors"

var (
	// ErrConnect возвращается, когда не удалось подключиться к брокеру
	ErrConnect = errors.New("notifier: failed to connect to broker")

	// ErrEncode возвращается при ошибке сериализации события
	ErrEncode = errors.New("notifier: failed to encode event")

	// ErrPublish возвращается, когда брокер не принял сообщение
	ErrPublish = errors.New("notifier: failed to publish event")
)
