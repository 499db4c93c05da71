package main

import "task-tree-system.com/task-tree-system/cmd"

func main() {
	cmd.Execute()
}
