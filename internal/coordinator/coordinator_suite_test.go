package coordinator_test

import (
	"context"
	"fmt"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/luxfi/thresh-eddsa/internal/agent"
	"github.com/luxfi/thresh-eddsa/internal/coordinator"
	"github.com/luxfi/thresh-eddsa/pkg/core"
	"github.com/luxfi/thresh-eddsa/pkg/party"
)

func TestCoordinatorSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "coordinator suite")
}

func registerAndKeygen(n, threshold int) (*coordinator.Coordinator, []party.ID) {
	c, err := coordinator.New(threshold, n)
	Expect(err).NotTo(HaveOccurred())

	ids := make([]party.ID, n)
	for i := 0; i < n; i++ {
		id := party.ID(fmt.Sprintf("party-%d", i))
		ids[i] = id
		ag := agent.New(id)
		y, err := ag.Register()
		Expect(err).NotTo(HaveOccurred())
		Expect(c.RegisterParty(id, y, ag)).To(Succeed())
	}
	_, err = c.RunKeygen(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return c, ids
}

var _ = Describe("threshold signing end to end", func() {
	var (
		c   *coordinator.Coordinator
		ids []party.ID
	)

	BeforeEach(func() {
		c, ids = registerAndKeygen(4, 3)
	})

	It("produces a signature that verifies under the joint public key", func() {
		y, err := c.PublicKey()
		Expect(err).NotTo(HaveOccurred())

		sig, err := c.RunSigning(context.Background(), ids[:3], []byte("ship it"))
		Expect(err).NotTo(HaveOccurred())
		Expect(core.VerifyEd25519(sig, []byte("ship it"), y)).To(BeTrue())
	})

	It("produces signatures from independent quorums of the exact threshold size that verify under the same joint public key", func() {
		y, err := c.PublicKey()
		Expect(err).NotTo(HaveOccurred())

		message := []byte("quorum agreement")
		sigA, err := c.RunSigning(context.Background(), []party.ID{ids[0], ids[1], ids[2]}, message)
		Expect(err).NotTo(HaveOccurred())
		sigB, err := c.RunSigning(context.Background(), []party.ID{ids[1], ids[2], ids[3]}, message)
		Expect(err).NotTo(HaveOccurred())

		Expect(core.VerifyEd25519(sigA, message, y)).To(BeTrue())
		Expect(core.VerifyEd25519(sigB, message, y)).To(BeTrue())
	})

	It("rejects a signing request with fewer than threshold signers", func() {
		_, err := c.RunSigning(context.Background(), ids[:2], []byte("too few"))
		Expect(err).To(HaveOccurred())
		cerr, ok := err.(*core.Error)
		Expect(ok).To(BeTrue())
		Expect(cerr.Kind).To(Equal(core.InsufficientSigners))
	})

	It("signs a one-byte message", func() {
		y, err := c.PublicKey()
		Expect(err).NotTo(HaveOccurred())
		sig, err := c.RunSigning(context.Background(), ids[:3], []byte{0x42})
		Expect(err).NotTo(HaveOccurred())
		Expect(core.VerifyEd25519(sig, []byte{0x42}, y)).To(BeTrue())
	})

	It("signs with a non-contiguous signer subset", func() {
		y, err := c.PublicKey()
		Expect(err).NotTo(HaveOccurred())
		subset := []party.ID{ids[0], ids[2], ids[3]}
		sig, err := c.RunSigning(context.Background(), subset, []byte("non-contiguous"))
		Expect(err).NotTo(HaveOccurred())
		Expect(core.VerifyEd25519(sig, []byte("non-contiguous"), y)).To(BeTrue())
	})
})

var _ = Describe("keygen registration boundary cases", func() {
	It("accepts a threshold of 2 over exactly 2 parties, then signs with both", func() {
		c, ids := registerAndKeygen(2, 2)
		y, err := c.PublicKey()
		Expect(err).NotTo(HaveOccurred())
		sig, err := c.RunSigning(context.Background(), ids, []byte("t=n=2"))
		Expect(err).NotTo(HaveOccurred())
		Expect(core.VerifyEd25519(sig, []byte("t=n=2"), y)).To(BeTrue())
	})

	It("rejects more registrations than the expected party count", func() {
		c, err := coordinator.New(2, 2)
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 2; i++ {
			id := party.ID(fmt.Sprintf("over-%d", i))
			ag := agent.New(id)
			y, err := ag.Register()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.RegisterParty(id, y, ag)).To(Succeed())
		}

		extra := agent.New("over-extra")
		y, err := extra.Register()
		Expect(err).NotTo(HaveOccurred())
		Expect(c.RegisterParty("over-extra", y, extra)).To(HaveOccurred())
	})
})
