package trade

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Compute budget program instructions, encoded by hand: a one-byte
// instruction index followed by the little-endian argument.
const (
	setComputeUnitLimitIndex uint8 = 2
	setComputeUnitPriceIndex uint8 = 3
)

var computeBudgetProgramID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

// Compute unit limits by operation
const (
	buyComputeUnitLimit    uint32 = 400_000
	sellComputeUnitLimit   uint32 = 180_000
	createComputeUnitLimit uint32 = 500_000
)

// newComputeUnitLimitInstruction caps the transaction's compute units
func newComputeUnitLimitInstruction(units uint32) solana.Instruction {
	data := make([]byte, 5)
	data[0] = setComputeUnitLimitIndex
	binary.LittleEndian.PutUint32(data[1:], units)

	return solana.NewInstruction(computeBudgetProgramID, []*solana.AccountMeta{}, data)
}

// newComputeUnitPriceInstruction sets the priority fee in micro-lamports
// per compute unit
func newComputeUnitPriceInstruction(microLamports uint64) solana.Instruction {
	data := make([]byte, 9)
	data[0] = setComputeUnitPriceIndex
	binary.LittleEndian.PutUint64(data[1:], microLamports)

	return solana.NewInstruction(computeBudgetProgramID, []*solana.AccountMeta{}, data)
}

// budgetInstructions returns the compute budget prelude for an operation.
// The price instruction is only added when a priority fee is configured.
func budgetInstructions(unitLimit uint32, priorityFee uint64) []solana.Instruction {
	instructions := []solana.Instruction{newComputeUnitLimitInstruction(unitLimit)}
	if priorityFee > 0 {
		instructions = append(instructions, newComputeUnitPriceInstruction(priorityFee))
	}
	return instructions
}
