// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

const (
	indexBits = 20
	seqBits   = 63 - indexBits

	maxIndex    = 1<<indexBits - 1
	maxBatchSeq = 1<<seqBits - 1
)

// sequence orders logs by batch position, then by index within the batch.
type sequence int64

func newSequence(batchSeq uint64, index uint32) sequence {
	if batchSeq > maxBatchSeq {
		panic("batch seq too large")
	}
	if index > maxIndex {
		panic("index too large")
	}
	return sequence(batchSeq<<indexBits) | sequence(index)
}

func (s sequence) BatchSeq() uint64 {
	return uint64(s >> indexBits)
}

func (s sequence) Index() uint32 {
	return uint32(s & maxIndex)
}
