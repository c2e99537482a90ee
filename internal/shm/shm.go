// Package shm provides helpers for dealing with shared memory.
package shm

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Create creates an anonymous memory file that can later be sealed.
func Create(name string) (*os.File, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err != nil {
		return nil, fmt.Errorf("memfd: %w", err)
	}
	return os.NewFile(uintptr(fd), name), nil
}

// Seal prevents any further changes to the size or contents of file.
// Clients can then map it without worrying about it being truncated
// out from under them.
func Seal(file *os.File) error {
	sc, err := file.SyscallConn()
	if err != nil {
		return err
	}

	cerr := sc.Control(func(fd uintptr) {
		_, err = unix.FcntlInt(fd, unix.F_ADD_SEALS, unix.F_SEAL_SHRINK|unix.F_SEAL_GROW|unix.F_SEAL_WRITE|unix.F_SEAL_SEAL)
	})
	if cerr != nil {
		return cerr
	}
	return err
}

type Mmap []byte

func Map(file *os.File, size int, prot int) (mmap Mmap, err error) {
	sc, err := file.SyscallConn()
	if err != nil {
		return nil, err
	}

	cerr := sc.Control(func(fd uintptr) {
		m, merr := unix.Mmap(int(fd), 0, size, prot, unix.MAP_SHARED)
		mmap, err = Mmap(m), merr
	})
	if cerr != nil {
		return nil, cerr
	}

	return mmap, err
}

func (mmap Mmap) Unmap() error {
	return unix.Munmap(mmap)
}
