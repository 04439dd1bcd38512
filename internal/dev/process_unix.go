//go:build !windows

package dev

import (
	"context"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// processHandle owns one app process and its process group.
type processHandle struct {
	cmd    *exec.Cmd
	exited chan error
}

// startProcess launches binary in its own process group so the whole
// tree can be stopped together.
func startProcess(ctx context.Context, binary, dir string, env []string) (*processHandle, error) {
	cmd := exec.CommandContext(ctx, binary)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = env
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	h := &processHandle{cmd: cmd, exited: make(chan error, 1)}
	go func() {
		h.exited <- cmd.Wait()
	}()
	return h, nil
}

// stopProcess sends SIGTERM to the group and escalates to SIGKILL
// after five seconds.
func stopProcess(h *processHandle) {
	if h == nil || h.cmd == nil || h.cmd.Process == nil {
		return
	}

	pgid, err := syscall.Getpgid(h.cmd.Process.Pid)
	if err == nil {
		_ = syscall.Kill(-pgid, syscall.SIGTERM)
	} else {
		_ = h.cmd.Process.Signal(syscall.SIGTERM)
	}

	select {
	case <-h.exited:
		return
	case <-time.After(5 * time.Second):
		if pgid > 0 {
			_ = syscall.Kill(-pgid, syscall.SIGKILL)
		} else {
			_ = h.cmd.Process.Kill()
		}
		<-h.exited
	}
}
