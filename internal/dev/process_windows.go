//go:build windows

package dev

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"time"
)

type processHandle struct {
	cmd    *exec.Cmd
	exited chan error
}

func startProcess(ctx context.Context, binary, dir string, env []string) (*processHandle, error) {
	cmd := exec.CommandContext(ctx, binary)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = env

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	h := &processHandle{cmd: cmd, exited: make(chan error, 1)}
	go func() {
		h.exited <- cmd.Wait()
	}()
	return h, nil
}

// stopProcess kills the process tree. Windows has no process groups to
// signal, so taskkill does the tree walk.
func stopProcess(h *processHandle) {
	if h == nil || h.cmd == nil || h.cmd.Process == nil {
		return
	}

	kill := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(h.cmd.Process.Pid))
	if err := kill.Run(); err != nil {
		_ = h.cmd.Process.Kill()
	}

	select {
	case <-h.exited:
	case <-time.After(5 * time.Second):
	}
}
