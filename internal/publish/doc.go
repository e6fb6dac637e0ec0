// Package publish fans accepted samples out to external subscribers.
//
// The poller hands each Update to a Dispatcher, which queues it without
// blocking and delivers it to every configured Publisher (MQTT, NATS, the
// websocket hub). When the queue is full the oldest pending update is
// dropped, so a slow broker never stalls sampling.
package publish
