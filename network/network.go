// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package network routes messages between microcontrollers by identifier.
//
// Delivery is synchronous: Send and Broadcast call the receipt observation
// of each destination before they return.
package network

import (
	"errors"
	"log"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/rs/xid"

	"github.com/ezrec/mcunet/translate"
)

var f = translate.From

var (
	// Routing errors
	ErrDestinationNotFound = errors.New(f("destination not found"))
)

// Node is a network participant.
type Node interface {
	// ID returns the network identifier.
	ID() int
	// ReceiveMessage observes a delivered message.
	ReceiveMessage(source int, message string)
}

// Delivery describes a single message delivery.
type Delivery struct {
	ID          xid.ID
	Source      int
	Destination int
	Message     string
}

// Network is a directory of nodes keyed by their identifier.
type Network struct {
	Verbose bool // Set to enable verbose logging.

	// OnDeliver, if set, observes every delivery before the receipt.
	OnDeliver func(delivery Delivery)

	lock      sync.RWMutex
	directory map[int]Node
}

// NewNetwork creates an empty network.
func NewNetwork() (nw *Network) {
	nw = &Network{
		directory: make(map[int]Node),
	}

	return
}

// Register adds a node under its identifier, replacing any prior node.
// A nil node is logged and ignored.
func (nw *Network) Register(node Node) {
	if node == nil {
		log.Print("network: nil node not registered")
		return
	}

	nw.lock.Lock()
	defer nw.lock.Unlock()

	if nw.directory == nil {
		nw.directory = make(map[int]Node)
	}

	id := node.ID()
	if nw.Verbose {
		_, replaced := nw.directory[id]
		if replaced {
			log.Printf("network: replace %d", id)
		} else {
			log.Printf("network: register %d", id)
		}
	}

	nw.directory[id] = node
}

// Lookup finds the node registered under an identifier.
func (nw *Network) Lookup(id int) (node Node, ok bool) {
	nw.lock.RLock()
	defer nw.lock.RUnlock()

	node, ok = nw.directory[id]
	return
}

// IDs returns the registered identifiers in ascending order.
func (nw *Network) IDs() []int {
	nw.lock.RLock()
	defer nw.lock.RUnlock()

	return slices.Sorted(maps.Keys(nw.directory))
}

// Send delivers a message from source to destination.
//
// An unknown destination is logged and reported as ErrDestinationNotFound;
// callers are free to ignore it.
func (nw *Network) Send(source, destination int, message string) (err error) {
	node, ok := nw.Lookup(destination)
	if !ok {
		log.Print(f("MCU %v not found on the network", strconv.Itoa(destination)))
		err = ErrDestinationNotFound
		return
	}

	nw.deliver(source, node, message)

	return
}

// Broadcast delivers a message to every node except the source, in ascending
// identifier order, and returns the number of deliveries.
func (nw *Network) Broadcast(source int, message string) (count int) {
	nw.lock.RLock()
	var nodes []Node
	for _, id := range slices.Sorted(maps.Keys(nw.directory)) {
		if id != source {
			nodes = append(nodes, nw.directory[id])
		}
	}
	nw.lock.RUnlock()

	for _, node := range nodes {
		nw.deliver(source, node, message)
		count++
	}

	return
}

// deliver hands the message to the node.
func (nw *Network) deliver(source int, node Node, message string) {
	delivery := Delivery{
		ID:          xid.New(),
		Source:      source,
		Destination: node.ID(),
		Message:     message,
	}

	if nw.Verbose {
		log.Printf("network: %v %d -> %d: %q", delivery.ID, delivery.Source, delivery.Destination, delivery.Message)
	}

	if nw.OnDeliver != nil {
		nw.OnDeliver(delivery)
	}

	node.ReceiveMessage(source, message)
}
