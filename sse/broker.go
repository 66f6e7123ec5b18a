/*
The MIT License (MIT)

Copyright (c) 2017-2021 Ismael Celis and contributors

Permission is hereby granted, free of charge, to any person obtaining a copy of
this software and associated documentation files (the "Software"), to deal in
the Software without restriction, including without limitation the rights to
use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
the Software, and to permit persons to whom the Software is furnished to do so,
subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

package sse

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/Alen-Aazim/noble-voting/logging"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const patience time.Duration = time.Second * 1

type (
	NotificationEvent struct {
		EventName string
		Payload   interface{}
	}

	NotifierChan chan NotificationEvent

	Broker struct {

		// Events are pushed to this channel by Publish
		Notifier NotifierChan

		// New client connections
		newClients chan NotifierChan

		// Closed client connections
		closingClients chan NotifierChan

		// Client connections registry, owned by Listen
		clients map[NotifierChan]struct{}

		// Number of registered clients, readable from any goroutine
		count atomic.Int32

		// Closed when Listen returns
		done chan struct{}
	}
)

func NewBroker() (broker *Broker) {
	return &Broker{
		Notifier:       make(NotifierChan, 1),
		newClients:     make(chan NotifierChan),
		closingClients: make(chan NotifierChan),
		clients:        make(map[NotifierChan]struct{}),
		done:           make(chan struct{}),
	}
}

// Publish hands an event to Listen. It returns false once the broker stopped.
func (broker *Broker) Publish(eventName string, payload interface{}) bool {
	select {
	case <-broker.done:
		return false
	default:
	}

	select {
	case broker.Notifier <- NotificationEvent{EventName: eventName, Payload: payload}:
		return true
	case <-broker.done:
		return false
	}
}

// Clients reports how many connections are registered.
func (broker *Broker) Clients() int {
	return int(broker.count.Load())
}

// ServeHTTP streams the events named by the "topic" route parameter until the
// client goes away or the broker stops.
func (broker *Broker) ServeHTTP(c *gin.Context) {
	eventName := c.Param("topic")

	// Each connection registers its own message channel with the Broker's connections registry
	messageChan := make(NotifierChan)

	select {
	case broker.newClients <- messageChan:
	case <-broker.done:
		c.Status(503)
		return
	}

	// Remove this client from the map of connected clients
	// when this handler exits.
	defer func() {
		select {
		case broker.closingClients <- messageChan:
		case <-broker.done:
		}
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(200)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-broker.done:
			return false
		case event := <-messageChan:
			if event.EventName == eventName {
				c.SSEvent(event.EventName, event.Payload)
				// Flush the data immediately instead of buffering it for later.
				c.Writer.Flush()
			}
			return true
		}
	})
}

// Listen for new notifications and redistribute them to clients until ctx is
// done.
func (broker *Broker) Listen(ctx context.Context) {
	log := logging.Logger.WithFields(logrus.Fields{"module": "sse", "method": "Listen"})
	defer close(broker.done)

	for {
		select {
		case <-ctx.Done():
			return
		case s := <-broker.newClients:

			// A new client has connected.
			// Register their message channel
			broker.clients[s] = struct{}{}
			broker.count.Store(int32(len(broker.clients)))
			log.WithField("clients", len(broker.clients)).Debug("client added")
		case s := <-broker.closingClients:

			// A client has detached and we want to
			// stop sending them messages.
			delete(broker.clients, s)
			broker.count.Store(int32(len(broker.clients)))
			log.WithField("clients", len(broker.clients)).Debug("client removed")
		case event := <-broker.Notifier:

			// Send event to all connected clients
			for clientMessageChan := range broker.clients {
				select {
				case clientMessageChan <- event:
				case <-time.After(patience):
					log.WithField("event", event.EventName).Warn("skipping slow client")
				}
			}
		}
	}
}
