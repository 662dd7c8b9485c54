// Command metacache is a CLI around the metacache client library: a
// one-shot get/set/del, a meta-set throughput benchmark, and an
// interactive shell, all speaking the memcached meta text protocol.
package main

func main() {
	Execute()
}
