package sid

import (
	"errors"
	"os"
	"strconv"

	"github.com/sony/sonyflake"
)

type Sid struct {
	sf *sonyflake.Sonyflake
}

func NewSid() *Sid {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{})
	if sf == nil {
		// no private IPv4 to derive the machine id from
		sf = sonyflake.NewSonyflake(sonyflake.Settings{MachineID: pidMachineID})
	}
	if sf == nil {
		panic("sonyflake not created")
	}
	return &Sid{sf}
}

func pidMachineID() (uint16, error) {
	return uint16(os.Getpid() & 0xffff), nil
}

// GenString returns a new id rendered in base 36, short enough for log fields and resource tags.
func (s Sid) GenString() (string, error) {
	id, err := s.sf.NextID()
	if err != nil {
		return "", errors.Join(errors.New("failed to generate sonyflake ID"), err)
	}
	return strconv.FormatUint(id, 36), nil
}

func (s Sid) GenUint64() (uint64, error) {
	return s.sf.NextID()
}
