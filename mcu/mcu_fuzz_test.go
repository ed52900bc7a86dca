package mcu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzExecute(f *testing.F) {
	for rv := range 0x100 {
		f.Add(uint8(rv), 0, false, uint8(0))
		f.Add(uint8(rv), -3, true, uint8(0xff))
	}

	f.Fuzz(func(t *testing.T, value uint8, r0 int, stack bool, pc uint8) {
		assert := assert.New(t)

		mcu := NewMcu(1, nil)
		mcu.Display = DisplayFunc(func(int) error { return nil })
		mcu.Sensor = SensorFunc(func() byte { return 0x5a })
		for n := range mcu.Memory {
			mcu.Memory[n] = uint8(n ^ 0xa5)
		}
		mcu.Register = [REGISTER_COUNT]int{r0, 0x11, 0x22, 0x33}
		if stack {
			mcu.Stack.Push(0x30)
		}

		before := *mcu
		before.Stack = Stack{Data: append([]int(nil), mcu.Stack.Data...)}

		op, operand := Decode(value)
		next, err := mcu.Execute(op, operand, int(pc))

		if err != nil {
			// Faults leave the machine unchanged.
			assert.Equal(before.Register, mcu.Register)
			assert.Equal(before.Stack.Data, mcu.Stack.Data)
			switch op {
			case OP_RET, OP_POP:
				assert.False(stack)
				assert.ErrorIs(err, ErrStackUnderflow)
			case OP_LOADIMM:
				assert.Equal(MEMORY_SIZE-1, int(pc))
				assert.ErrorIs(err, ErrAddressOutOfRange)
			default:
				t.Fatalf("unexpected fault %v for %v", err, op)
			}
			return
		}

		assert.Equal(before.Memory, mcu.Memory)
		assert.Equal(before.Register[2:], mcu.Register[2:])

		switch op {
		case OP_INC:
			assert.Equal(r0+1, mcu.Register[0])
		case OP_ADD:
			assert.Equal(r0+0x11, mcu.Register[0])
		case OP_SUB:
			assert.Equal(r0-0x11, mcu.Register[0])
		case OP_LOADIMM:
			assert.Equal(int(pc)+2, next)
			assert.Equal(int(mcu.Memory[int(pc)+1]), mcu.Register[1])
		case OP_LOAD:
			assert.Equal(int(mcu.Memory[operand]), mcu.Register[0])
		case OP_SENSE:
			assert.Equal(0x5a, mcu.Register[0])
		case OP_BEQZ:
			if r0 == 0 {
				assert.Equal(int(operand), next)
			} else {
				assert.Equal(int(pc)+1, next)
			}
		case OP_CALL:
			assert.Equal(int(operand), next)
			top, _ := mcu.Stack.Peek()
			assert.Equal(int(pc)+2, top)
		case OP_RET:
			assert.Equal(0x30, next)
			assert.True(mcu.Stack.Empty())
		case OP_PUSH:
			top, _ := mcu.Stack.Peek()
			assert.Equal(r0, top)
		case OP_POP:
			assert.Equal(0x30, mcu.Register[0])
		default:
			assert.Equal(before.Register, mcu.Register)
			assert.Equal(before.Stack.Data, mcu.Stack.Data)
		}

		switch op {
		case OP_LOADIMM, OP_BEQZ, OP_CALL, OP_RET:
		default:
			assert.Equal(int(pc)+1, next)
		}
	})
}
