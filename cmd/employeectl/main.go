// Command employeectl runs the employee import pipeline from the command line.
package main

func main() {
	Execute()
}
