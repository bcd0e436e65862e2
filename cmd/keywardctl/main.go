// keywardctl is the operator CLI for a keyward facility.
package main

func main() {
	Execute()
}
