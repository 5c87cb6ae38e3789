package tripack_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/bsm/tripack"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Array", func() {
	It("should split 24-bit values into byte blocks", func() {
		subject, err := tripack.New[uint8](4)
		Expect(err).NotTo(HaveOccurred())

		for i, v := range []uint64{0, 1, 16777215, 0x123456} {
			subject.Set(i, v)
		}
		Expect(tripack.RawBlocks(subject)).To(Equal([]uint8{
			0, 0, 0,
			0, 0, 1,
			255, 255, 255,
			0x12, 0x34, 0x56,
		}))
		Expect(valuesOf(subject)).To(Equal([]uint64{0, 1, 16777215, 0x123456}))
	})

	It("should split 48-bit values into 16-bit blocks", func() {
		subject, err := tripack.New[uint16](2)
		Expect(err).NotTo(HaveOccurred())

		subject.Set(0, 0x123456789abc)
		subject.Set(1, 1<<48-1)
		Expect(tripack.RawBlocks(subject)).To(Equal([]uint16{
			0x1234, 0x5678, 0x9abc,
			0xffff, 0xffff, 0xffff,
		}))
		Expect(valuesOf(subject)).To(Equal([]uint64{0x123456789abc, 1<<48 - 1}))
	})

	It("should truncate values wider than BitsPerValue", func() {
		a24, _ := tripack.New[uint8](1)
		a24.Set(0, 0xAB123456)
		Expect(a24.Get(0)).To(Equal(uint64(0x123456)))

		a48, _ := tripack.New[uint16](1)
		a48.Set(0, 0xABCD123456789abc)
		Expect(a48.Get(0)).To(Equal(uint64(0x123456789abc)))
	})

	It("should validate value counts", func() {
		Expect(tripack.CheckValueCount(0)).To(Succeed())
		Expect(tripack.CheckValueCount(tripack.MaxSize)).To(Succeed())
		Expect(tripack.CheckValueCount(tripack.MaxSize + 1)).To(MatchError(tripack.ErrValueCount))
		Expect(tripack.CheckValueCount(-1)).To(MatchError(tripack.ErrValueCount))

		_, err := tripack.New[uint8](tripack.MaxSize + 1)
		Expect(err).To(MatchError(tripack.ErrValueCount))
		_, err = tripack.New[uint16](tripack.MaxSize + 1)
		Expect(err).To(MatchError(`tripack: invalid value count: MaxSize exceeded (715827883 > 715827882)`))
	})

	It("should allocate MaxSize values", func() {
		if testing.Short() {
			Skip("allocates more than 2GiB")
		}

		subject, err := tripack.New[uint8](tripack.MaxSize)
		Expect(err).NotTo(HaveOccurred())
		Expect(subject.Len()).To(Equal(tripack.MaxSize))

		subject.Set(tripack.MaxSize-1, 0xabcdef)
		Expect(subject.Get(tripack.MaxSize - 1)).To(Equal(uint64(0xabcdef)))
	})

	It("should have a debug representation", func() {
		a24, _ := tripack.New[uint8](5)
		Expect(a24.String()).To(Equal("Array24(bitsPerValue=24, size=5, blocks=15)"))

		a48, _ := tripack.New[uint16](2)
		Expect(a48.String()).To(Equal("Array48(bitsPerValue=48, size=2, blocks=6)"))
	})

	It("should estimate RAM usage", func() {
		a24, _ := tripack.New[uint8](0)
		Expect(a24.RamBytesUsed()).To(Equal(int64(56)))

		a24, _ = tripack.New[uint8](4)
		Expect(a24.RamBytesUsed()).To(Equal(int64(72)))

		b24, _ := tripack.New[uint8](4)
		b24.Fill(0, 4, 0xffffff)
		Expect(b24.RamBytesUsed()).To(Equal(a24.RamBytesUsed()))

		a48, _ := tripack.New[uint16](4)
		Expect(a48.RamBytesUsed()).To(Equal(int64(80)))
	})

	for _, bits := range []int{24, 48} {
		bits := bits

		Context(fmt.Sprintf("with %d bits per value", bits), func() {
			var subject tripack.Mutable
			var rnd *rand.Rand
			var max uint64

			randomize := func(m tripack.Mutable) []uint64 {
				exp := make([]uint64, m.Len())
				for i := range exp {
					exp[i] = rnd.Uint64() & max
					m.Set(i, exp[i])
				}
				return exp
			}

			BeforeEach(func() {
				var err error
				subject, err = tripack.NewMutable(100, bits)
				Expect(err).NotTo(HaveOccurred())
				Expect(subject.BitsPerValue()).To(Equal(bits))
				Expect(subject.Len()).To(Equal(100))

				rnd = rand.New(rand.NewSource(int64(bits)))
				max = tripack.MaxValue(bits)
			})

			It("should init with zeros", func() {
				for i := 0; i < subject.Len(); i++ {
					Expect(subject.Get(i)).To(BeZero())
				}
			})

			It("should get/set without touching other slots", func() {
				exp := randomize(subject)

				for _, v := range []uint64{0, 1, max, max >> 1, rnd.Uint64() & max} {
					subject.Set(42, v)
					exp[42] = v
					Expect(valuesOf(subject)).To(Equal(exp))
				}
			})

			It("should get in bulk", func() {
				exp := randomize(subject)

				buf := make([]uint64, 30)
				Expect(subject.GetBulk(10, buf[5:25])).To(Equal(20))
				Expect(buf[:5]).To(Equal(make([]uint64, 5)))
				Expect(buf[5:25]).To(Equal(exp[10:30]))
				Expect(buf[25:]).To(Equal(make([]uint64, 5)))

				// truncated at the end
				Expect(subject.GetBulk(90, buf)).To(Equal(10))
				Expect(buf[:10]).To(Equal(exp[90:]))
			})

			It("should set in bulk", func() {
				src := make([]uint64, 30)
				for i := range src {
					src[i] = rnd.Uint64() & max
				}

				other, err := tripack.NewMutable(100, bits)
				Expect(err).NotTo(HaveOccurred())

				Expect(subject.SetBulk(20, src[:25])).To(Equal(25))
				for i, v := range src[:25] {
					other.Set(20+i, v)
				}
				Expect(valuesOf(subject)).To(Equal(valuesOf(other)))

				// truncated at the end
				Expect(subject.SetBulk(85, src)).To(Equal(15))
				Expect(valuesOf(subject)[85:]).To(Equal(src[:15]))
			})

			It("should fill ranges", func() {
				exp := randomize(subject)

				subject.Fill(17, 63, max)
				for i := 17; i < 63; i++ {
					exp[i] = max
				}
				Expect(valuesOf(subject)).To(Equal(exp))

				subject.Fill(63, 63, 0)
				Expect(valuesOf(subject)).To(Equal(exp))
			})

			It("should clear", func() {
				randomize(subject)
				subject.Clear()
				Expect(valuesOf(subject)).To(Equal(make([]uint64, 100)))
			})

			It("should estimate RAM usage by size only", func() {
				usage := make([]int64, 0, 200)
				for n := 0; n < 200; n++ {
					m, err := tripack.NewMutable(n, bits)
					Expect(err).NotTo(HaveOccurred())

					used := m.RamBytesUsed()
					if n > 0 {
						Expect(used).To(BeNumerically(">=", usage[n-1]), "for %d", n)
					}
					if n >= 8 {
						Expect(used).To(BeNumerically(">", usage[n-8]), "for %d", n)
					}
					usage = append(usage, used)
				}
			})

			It("should save/read", func() {
				exp := randomize(subject)

				for _, version := range []int{tripack.VersionStart, tripack.VersionByteAligned} {
					buf := new(bytes.Buffer)
					Expect(subject.Save(tripack.NewDataOutput(buf), version)).To(Succeed())
					Expect(int64(buf.Len())).To(Equal(tripack.FormatPacked.ByteCount(version, 100, bits)))

					buf.WriteString("tail")
					in := tripack.NewDataInput(buf)
					res, err := tripack.ReadMutable(in, version, 100, bits)
					Expect(err).NotTo(HaveOccurred())
					Expect(valuesOf(res)).To(Equal(exp))
					Expect(buf.String()).To(Equal("tail"))
				}
			})

			It("should pass through stream errors", func() {
				randomize(subject)

				buf := new(bytes.Buffer)
				Expect(subject.Save(tripack.NewDataOutput(buf), tripack.VersionCurrent)).To(Succeed())

				_, err := tripack.ReadMutable(tripack.NewDataInput(bytes.NewReader(nil)), tripack.VersionCurrent, 100, bits)
				Expect(err).To(MatchError(io.EOF))

				_, err = tripack.ReadMutable(tripack.NewDataInput(bytes.NewReader(buf.Bytes()[:buf.Len()-1])), tripack.VersionCurrent, 100, bits)
				Expect(err).To(HaveOccurred())

				_, err = tripack.ReadMutable(failingInput{}, tripack.VersionCurrent, 100, bits)
				Expect(err).To(MatchError(errFailingInput))
			})

			if tripack.AssertionsEnabled {
				It("should assert bulk preconditions", func() {
					Expect(func() { subject.GetBulk(0, nil) }).To(Panic())
					Expect(func() { subject.SetBulk(100, make([]uint64, 1)) }).To(Panic())
					Expect(func() { subject.GetBulk(-1, make([]uint64, 1)) }).To(Panic())
				})
			}
		})
	}

	Describe("Read", func() {
		It("should consume legacy padding", func() {
			for _, tc := range []struct {
				version int
				size    int
			}{
				{tripack.VersionByteAligned, 12},
				{tripack.VersionStart, 16},
			} {
				data := append(make([]byte, tc.size), 0xEE)
				data[2], data[5] = 7, 9

				in := &countingInput{DataInput: tripack.NewDataInput(bytes.NewReader(data))}
				subject, err := tripack.Read[uint8](in, tc.version, 4, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(valuesOf(subject)).To(Equal([]uint64{7, 9, 0, 0}))
				Expect(in.bytes).To(Equal(tc.size - 12))

				next, err := in.ReadByte()
				Expect(err).NotTo(HaveOccurred())
				Expect(next).To(Equal(byte(0xEE)))
			}
		})

		It("should read 16-bit blocks individually", func() {
			data := make([]byte, 24+1)
			data[1], data[23], data[24] = 1, 2, 0xEE

			in := &countingInput{DataInput: tripack.NewDataInput(bytes.NewReader(data))}
			subject, err := tripack.Read[uint16](in, tripack.VersionStart, 3, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(valuesOf(subject)).To(Equal([]uint64{1 << 32, 0, 0}))
			Expect(in.uint16s).To(Equal(9))
			Expect(in.bytes).To(Equal(6))
			Expect(subject.Get(2)).To(BeZero())
		})

		It("should accept a custom byte counter", func() {
			data := make([]byte, 20)
			in := &countingInput{DataInput: tripack.NewDataInput(bytes.NewReader(data))}
			_, err := tripack.Read[uint8](in, tripack.VersionCurrent, 4, func(version, valueCount, bitsPerValue int) int64 {
				Expect(bitsPerValue).To(Equal(24))
				return 16
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(in.bytes).To(Equal(4))
		})

		It("should reject invalid value counts", func() {
			_, err := tripack.Read[uint8](failingInput{}, tripack.VersionCurrent, tripack.MaxSize+1, nil)
			Expect(err).To(MatchError(tripack.ErrValueCount))
		})
	})
})

// --------------------------------------------------------------------

var errFailingInput = errors.New("failing input")

type failingInput struct{}

func (failingInput) ReadByte() (byte, error)     { return 0, errFailingInput }
func (failingInput) ReadBytes([]byte) error      { return errFailingInput }
func (failingInput) ReadUint16() (uint16, error) { return 0, errFailingInput }

type countingInput struct {
	tripack.DataInput
	bytes, uint16s int
}

func (c *countingInput) ReadByte() (byte, error) {
	c.bytes++
	return c.DataInput.ReadByte()
}

func (c *countingInput) ReadUint16() (uint16, error) {
	c.uint16s++
	return c.DataInput.ReadUint16()
}
