// Package serverinfo peeks into a CalDAVTester server-info descriptor.
// The schema is owned by the external test runner; only the connection
// fields the launcher logs are read here.
package serverinfo

import (
	"encoding/xml"
	"fmt"
	"net"
	"os"
	"strconv"
)

// Info holds the connection parameters of the target server.
type Info struct {
	XMLName xml.Name `xml:"serverinfo"`
	Host    string   `xml:"host"`
	Port    int      `xml:"nonsslport"`
	SSLPort int      `xml:"sslport"`
}

// Load reads and decodes the descriptor at path.
func Load(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info Info
	if err := xml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("malformed server info %s: %w", path, err)
	}
	return &info, nil
}

// Addr returns the host:port the run will target, picking the SSL port when
// ssl is set.
func (i *Info) Addr(ssl bool) string {
	port := i.Port
	if ssl {
		port = i.SSLPort
	}
	return net.JoinHostPort(i.Host, strconv.Itoa(port))
}
