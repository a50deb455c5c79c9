package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Name resolution
	ResInfo             Code = 1000
	ResUnresolvedName   Code = 1001
	ResUnresolvedType   Code = 1002
	ResBareGenericType  Code = 1003
	ResWrongTypeArity   Code = 1004
	ResNotCallable      Code = 1005
	ResDuplicateBinding Code = 1006

	// Type inference
	TypeInfo             Code = 2000
	TypeMismatch         Code = 2001
	TypeOptionalUnsafe   Code = 2002
	TypeBadOperands      Code = 2003
	TypeConditionNotBool Code = 2004

	// Fragment analysis
	FragInfo            Code = 3000
	FragNoAnchor        Code = 3001
	FragContextMissing  Code = 3002
	FragImportMalformed Code = 3003
)

func (c Code) String() string {
	switch {
	case c >= 3000:
		return fmt.Sprintf("FRG%04d", uint16(c))
	case c >= 2000:
		return fmt.Sprintf("TYP%04d", uint16(c))
	case c >= 1000:
		return fmt.Sprintf("RES%04d", uint16(c))
	default:
		return fmt.Sprintf("UNK%04d", uint16(c))
	}
}
