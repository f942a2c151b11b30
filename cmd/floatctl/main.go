// Command floatctl loads and indexes ARGO float data and asks questions
// about it from the terminal.
package main

func main() {
	Execute()
}
