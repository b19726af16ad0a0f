package classify

import (
	"fmt"
	"slices"
	"strings"
)

// Bucket is an execution-context classification target.
type Bucket int

// Buckets in report order.
const (
	PageServer Bucket = iota
	Server
	Client
)

// Buckets lists every bucket in report order.
var Buckets = []Bucket{PageServer, Server, Client}

func (b Bucket) String() string {
	switch b {
	case PageServer:
		return "page-server"
	case Server:
		return "server"
	case Client:
		return "client"
	default:
		return fmt.Sprintf("Bucket(%d)", int(b))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Convention prefixes removed from classified names.
const (
	ClientPrefix = "client_"
	ServerPrefix = "server_"
)

var (
	pageServerNames = []string{"server_load", "actions"}
	serverNames     = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}
	clientNames     = []string{"client_load"}
)

// Names returns the convention names of a bucket in table order. Server
// also receives every name that matches no table.
func Names(b Bucket) []string {
	switch b {
	case PageServer:
		return slices.Clone(pageServerNames)
	case Server:
		return slices.Clone(serverNames)
	case Client:
		return slices.Clone(clientNames)
	}
	return nil
}

// Prefix returns the prefix stripped from names routed to b.
func Prefix(b Bucket) string {
	if b == Client {
		return ClientPrefix
	}
	return ServerPrefix
}

// BucketFor applies the naming convention to a declared name and returns
// its bucket and rewritten name. Tables are tested client first, then page
// server, then server; unmatched names default to Server unchanged.
func BucketFor(name string) (Bucket, string) {
	switch {
	case slices.Contains(clientNames, name):
		return Client, strings.Replace(name, ClientPrefix, "", 1)
	case slices.Contains(pageServerNames, name):
		return PageServer, strings.Replace(name, ServerPrefix, "", 1)
	case slices.Contains(serverNames, name):
		return Server, strings.Replace(name, ServerPrefix, "", 1)
	}
	return Server, name
}
