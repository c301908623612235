// Command sheettool inspects, renders and exports chiptune sheets and the
// built-in songs without opening a window.
package main

func main() {
	Execute()
}
