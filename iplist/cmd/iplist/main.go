// Looks up IPs in a geolocation range file read from stdin.
package main

import (
	"fmt"
	"log"
	"net/netip"
	"os"

	"github.com/anacrolix/tagflag"

	"github.com/upflare/tracker/iplist"
)

func main() {
	flags := struct {
		tagflag.StartPos
		Ips []string
	}{}
	tagflag.Parse(&flags)
	il, err := iplist.NewFromReader(os.Stdin)
	if err != nil {
		log.Fatalf("error loading ip list: %s", err)
	}
	log.Printf("loaded %d ranges", il.NumRanges())
	for _, s := range flags.Ips {
		ip, err := netip.ParseAddr(s)
		if err != nil {
			log.Printf("bad ip %q: %v", s, err)
			continue
		}
		r := il.Lookup(ip)
		if r != nil {
			fmt.Printf("%s is in %v\n", ip, r)
		} else {
			fmt.Printf("%s not found\n", ip)
		}
	}
}
