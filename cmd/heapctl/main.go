// Command heapctl drives a heap from the command line: it runs allocation
// scripts against a fresh or file-backed buffer and prints block layouts.
package main

func main() {
	execute()
}
