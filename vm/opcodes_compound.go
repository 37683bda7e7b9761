package vm

import (
	"math/big"

	"github.com/mna/covm/script"
	"github.com/mna/covm/stackitem"
)

func isCompoundOp(op script.OpCode) bool {
	switch op {
	case script.PACK, script.UNPACK, script.NEWARRAY0, script.NEWARRAY,
		script.NEWARRAY_T, script.NEWSTRUCT0, script.NEWSTRUCT, script.NEWMAP,
		script.SIZE, script.HASKEY, script.KEYS, script.VALUES,
		script.PICKITEM, script.APPEND, script.SETITEM, script.REVERSEITEMS,
		script.REMOVE, script.CLEARITEMS:
		return true
	default:
		return false
	}
}

// cloneIfStruct implements the container "struct-by-value" rule: APPEND and
// SETITEM clone a Struct they insert, and VALUES clones the Structs it
// copies out; PICKITEM and UNPACK push the stored item itself. Every other
// item is shared by reference.
func cloneIfStruct(it stackitem.Item) stackitem.Item {
	if st, ok := it.(*stackitem.Struct); ok {
		return st.Clone()
	}
	return it
}

// execCompound implements the compound-type operation group (§4.6).
func (e *Engine) execCompound(instr script.Instruction) error {
	s := e.currentContext.Stack

	switch instr.Opcode {
	case script.PACK:
		n, err := popInt(s)
		if err != nil {
			return err
		}
		if n < 0 || n > e.limits.MaxStackSize {
			return wrapf(ErrLimit, "PACK count %d exceeds MaxStackSize %d", n, e.limits.MaxStackSize)
		}
		elems := make([]stackitem.Item, n)
		for i := 0; i < n; i++ {
			v, err := s.Pop()
			if err != nil {
				return err
			}
			// PACK(n) pops n items in reverse stack order into the new array, so
			// the item popped first (the prior top) becomes the array's last
			// element.
			elems[n-1-i] = v
		}
		arr := stackitem.NewArray(elems)
		for _, v := range elems {
			e.refc.AddReference(v, arr)
		}
		s.Push(arr)
		return nil

	case script.UNPACK:
		v, err := s.RemoveAs(0, stackitem.TypeArray)
		if err != nil {
			return err
		}
		arr := v.(*stackitem.Array)
		for i := 0; i < arr.Len(); i++ {
			s.Push(arr.At(i))
		}
		s.Push(stackitem.NewIntegerFromInt64(int64(arr.Len())))
		return nil

	case script.NEWARRAY0:
		s.Push(stackitem.NewArray(nil))
		return nil

	case script.NEWARRAY:
		n, err := popInt(s)
		if err != nil {
			return err
		}
		if n < 0 || n > e.limits.MaxStackSize {
			return wrapf(ErrLimit, "NEWARRAY count %d exceeds MaxStackSize %d", n, e.limits.MaxStackSize)
		}
		elems := make([]stackitem.Item, n)
		for i := range elems {
			elems[i] = stackitem.Nil
		}
		s.Push(stackitem.NewArray(elems))
		return nil

	case script.NEWARRAY_T:
		n, err := popInt(s)
		if err != nil {
			return err
		}
		if n < 0 || n > e.limits.MaxStackSize {
			return wrapf(ErrLimit, "NEWARRAY_T count %d exceeds MaxStackSize %d", n, e.limits.MaxStackSize)
		}
		t := stackitem.Type(instr.TokenU8)
		if t > stackitem.TypeNull {
			return wrapf(ErrInvariant, "NEWARRAY_T: %d is not a defined StackItemType", instr.TokenU8)
		}
		def := stackitem.DefaultForType(t)
		elems := make([]stackitem.Item, n)
		for i := range elems {
			elems[i] = def
		}
		s.Push(stackitem.NewArray(elems))
		return nil

	case script.NEWSTRUCT0:
		s.Push(stackitem.NewStruct(nil))
		return nil

	case script.NEWSTRUCT:
		n, err := popInt(s)
		if err != nil {
			return err
		}
		if n < 0 || n > e.limits.MaxStackSize {
			return wrapf(ErrLimit, "NEWSTRUCT count %d exceeds MaxStackSize %d", n, e.limits.MaxStackSize)
		}
		elems := make([]stackitem.Item, n)
		for i := range elems {
			elems[i] = stackitem.Nil
		}
		s.Push(stackitem.NewStruct(elems))
		return nil

	case script.NEWMAP:
		s.Push(stackitem.NewMap(0))
		return nil

	case script.SIZE:
		v, err := s.Pop()
		if err != nil {
			return err
		}
		switch it := v.(type) {
		case stackitem.Compound:
			s.Push(stackitem.NewIntegerFromInt64(int64(it.Len())))
		case stackitem.Primitive:
			s.Push(stackitem.NewIntegerFromInt64(int64(len(it.Span()))))
		default:
			return wrapf(ErrType, "SIZE on %s", v.Type())
		}
		return nil

	case script.HASKEY:
		key, err := s.Pop()
		if err != nil {
			return err
		}
		v, err := s.Pop()
		if err != nil {
			return err
		}
		switch it := v.(type) {
		case *stackitem.Map:
			ok, err := it.HasKey(key)
			if err != nil {
				return err
			}
			s.Push(stackitem.Boolean(ok))
		case *stackitem.Array:
			i, err := stackitem.GetInteger(key, stackitem.MaxIntegerBytes)
			if err != nil {
				return err
			}
			s.Push(stackitem.Boolean(i.Sign() >= 0 && i.IsInt64() && int(i.Int64()) < it.Len()))
		default:
			return wrapf(ErrType, "HASKEY on %s", v.Type())
		}
		return nil

	case script.KEYS:
		v, err := s.RemoveAs(0, stackitem.TypeMap)
		if err != nil {
			return err
		}
		s.Push(stackitem.NewArray(v.(*stackitem.Map).Keys()))
		return nil

	case script.VALUES:
		v, err := s.Pop()
		if err != nil {
			return err
		}
		switch it := v.(type) {
		case *stackitem.Map:
			vals := it.Values()
			out := make([]stackitem.Item, len(vals))
			for i, e := range vals {
				out[i] = cloneIfStruct(e)
			}
			s.Push(stackitem.NewArray(out))
		case *stackitem.Array:
			out := make([]stackitem.Item, it.Len())
			for i := 0; i < it.Len(); i++ {
				out[i] = cloneIfStruct(it.At(i))
			}
			s.Push(stackitem.NewArray(out))
		default:
			return wrapf(ErrType, "VALUES on %s", v.Type())
		}
		return nil

	case script.PICKITEM:
		key, err := s.Pop()
		if err != nil {
			return err
		}
		v, err := s.Pop()
		if err != nil {
			return err
		}
		return e.pickItem(s, v, key)

	case script.APPEND:
		v, err := s.Pop()
		if err != nil {
			return err
		}
		coll, err := s.Pop()
		if err != nil {
			return err
		}
		v = cloneIfStruct(v)
		switch it := coll.(type) {
		case *stackitem.Array:
			if it.Len() >= e.limits.MaxStackSize {
				return wrapf(ErrLimit, "APPEND exceeds MaxStackSize %d", e.limits.MaxStackSize)
			}
			it.Append(v)
			e.refc.AddReference(v, it)
		case *stackitem.Struct:
			if it.Len() >= e.limits.MaxStackSize {
				return wrapf(ErrLimit, "APPEND exceeds MaxStackSize %d", e.limits.MaxStackSize)
			}
			it.Append(v)
			e.refc.AddReference(v, it)
		default:
			return wrapf(ErrType, "APPEND on %s", coll.Type())
		}
		return nil

	case script.SETITEM:
		v, err := s.Pop()
		if err != nil {
			return err
		}
		key, err := s.Pop()
		if err != nil {
			return err
		}
		coll, err := s.Pop()
		if err != nil {
			return err
		}
		return e.setItem(coll, key, v)

	case script.REVERSEITEMS:
		v, err := s.Pop()
		if err != nil {
			return err
		}
		switch it := v.(type) {
		case *stackitem.Array:
			it.Reverse()
		case *stackitem.Buffer:
			reverseBytes(it)
		default:
			return wrapf(ErrType, "REVERSEITEMS on %s", v.Type())
		}
		return nil

	case script.REMOVE:
		key, err := s.Pop()
		if err != nil {
			return err
		}
		coll, err := s.Pop()
		if err != nil {
			return err
		}
		switch it := coll.(type) {
		case *stackitem.Array:
			i, err := stackitem.GetInteger(key, stackitem.MaxIntegerBytes)
			if err != nil {
				return err
			}
			if i.Sign() < 0 || !i.IsInt64() || int(i.Int64()) >= it.Len() {
				return wrapf(ErrRange, "REMOVE index %s out of range", i)
			}
			removed := it.At(int(i.Int64()))
			it.RemoveAt(int(i.Int64()))
			e.refc.RemoveReference(removed, it)
		case *stackitem.Map:
			ok, err := it.Remove(key)
			if err != nil {
				return err
			}
			if !ok {
				return wrapf(ErrRange, "REMOVE key not present")
			}
		default:
			return wrapf(ErrType, "REMOVE on %s", coll.Type())
		}
		return nil

	case script.CLEARITEMS:
		v, err := s.Pop()
		if err != nil {
			return err
		}
		switch it := v.(type) {
		case *stackitem.Array:
			it.Clear()
		case *stackitem.Struct:
			it.Clear()
		case *stackitem.Map:
			it.Clear()
		default:
			return wrapf(ErrType, "CLEARITEMS on %s", v.Type())
		}
		return nil

	default:
		return wrapf(ErrDecode, "unhandled compound opcode %s", instr.Opcode)
	}
}

func reverseBytes(b *stackitem.Buffer) {
	for i, j := 0, b.Len()-1; i < j; i, j = i+1, j-1 {
		bi, bj := b.ByteAt(i), b.ByteAt(j)
		b.SetByte(i, bj)
		b.SetByte(j, bi)
	}
}

// pickItem implements PICKITEM for every supported collection variant
// (§4.6): Array/Struct/Map index or key lookup, and a byte read on
// PrimitiveType/Buffer.
func (e *Engine) pickItem(s *EvalStack, coll, key stackitem.Item) error {
	switch it := coll.(type) {
	case *stackitem.Array:
		i, err := stackitem.GetInteger(key, stackitem.MaxIntegerBytes)
		if err != nil {
			return err
		}
		if i.Sign() < 0 || !i.IsInt64() || int(i.Int64()) >= it.Len() {
			return wrapf(ErrRange, "PICKITEM index %s out of range", i)
		}
		s.Push(it.At(int(i.Int64())))
		return nil
	case *stackitem.Struct:
		i, err := stackitem.GetInteger(key, stackitem.MaxIntegerBytes)
		if err != nil {
			return err
		}
		if i.Sign() < 0 || !i.IsInt64() || int(i.Int64()) >= it.Len() {
			return wrapf(ErrRange, "PICKITEM index %s out of range", i)
		}
		s.Push(it.At(int(i.Int64())))
		return nil
	case *stackitem.Map:
		v, ok, err := it.Get(key)
		if err != nil {
			return err
		}
		if !ok {
			return wrapf(ErrRange, "PICKITEM key not present")
		}
		s.Push(v)
		return nil
	case *stackitem.Buffer:
		i, err := stackitem.GetInteger(key, stackitem.MaxIntegerBytes)
		if err != nil {
			return err
		}
		if i.Sign() < 0 || !i.IsInt64() || int(i.Int64()) >= it.Len() {
			return wrapf(ErrRange, "PICKITEM index %s out of range", i)
		}
		s.Push(stackitem.NewIntegerFromInt64(int64(it.ByteAt(int(i.Int64())))))
		return nil
	case stackitem.Primitive:
		span := it.Span()
		i, err := stackitem.GetInteger(key, stackitem.MaxIntegerBytes)
		if err != nil {
			return err
		}
		if i.Sign() < 0 || !i.IsInt64() || int(i.Int64()) >= len(span) {
			return wrapf(ErrRange, "PICKITEM index %s out of range", i)
		}
		s.Push(stackitem.NewIntegerFromInt64(int64(span[i.Int64()])))
		return nil
	default:
		return wrapf(ErrType, "PICKITEM on %s", coll.Type())
	}
}

// setItem implements SETITEM for Array/Struct (index), Map (key), and
// Buffer (index, primitive-convertible byte value).
func (e *Engine) setItem(coll, key, v stackitem.Item) error {
	switch it := coll.(type) {
	case *stackitem.Array:
		i, err := stackitem.GetInteger(key, stackitem.MaxIntegerBytes)
		if err != nil {
			return err
		}
		if i.Sign() < 0 || !i.IsInt64() || int(i.Int64()) >= it.Len() {
			return wrapf(ErrRange, "SETITEM index %s out of range", i)
		}
		nv := cloneIfStruct(v)
		old := it.At(int(i.Int64()))
		it.SetAt(int(i.Int64()), nv)
		e.refc.RemoveReference(old, it)
		e.refc.AddReference(nv, it)
		return nil
	case *stackitem.Struct:
		i, err := stackitem.GetInteger(key, stackitem.MaxIntegerBytes)
		if err != nil {
			return err
		}
		if i.Sign() < 0 || !i.IsInt64() || int(i.Int64()) >= it.Len() {
			return wrapf(ErrRange, "SETITEM index %s out of range", i)
		}
		nv := cloneIfStruct(v)
		old := it.At(int(i.Int64()))
		it.SetAt(int(i.Int64()), nv)
		e.refc.RemoveReference(old, it)
		e.refc.AddReference(nv, it)
		return nil
	case *stackitem.Map:
		if it.Len() >= e.limits.MaxStackSize {
			if ok, _ := it.HasKey(key); !ok {
				return wrapf(ErrLimit, "SETITEM exceeds MaxStackSize %d", e.limits.MaxStackSize)
			}
		}
		v = cloneIfStruct(v)
		old, hadOld, err := it.Get(key)
		if err != nil {
			return err
		}
		if err := it.SetKey(key, v); err != nil {
			return err
		}
		if hadOld {
			e.refc.RemoveReference(old, it)
		}
		e.refc.AddReference(v, it)
		return nil
	case *stackitem.Buffer:
		i, err := stackitem.GetInteger(key, stackitem.MaxIntegerBytes)
		if err != nil {
			return err
		}
		if i.Sign() < 0 || !i.IsInt64() || int(i.Int64()) >= it.Len() {
			return wrapf(ErrRange, "SETITEM index %s out of range", i)
		}
		bv, err := stackitem.GetInteger(v, stackitem.MaxIntegerBytes)
		if err != nil {
			return err
		}
		lo, hi := big.NewInt(-128), big.NewInt(255)
		if bv.Cmp(lo) < 0 || bv.Cmp(hi) > 0 {
			return wrapf(ErrRange, "SETITEM value %s out of byte range", bv)
		}
		it.SetByte(int(i.Int64()), byte(bv.Int64()))
		return nil
	default:
		return wrapf(ErrType, "SETITEM on %s", coll.Type())
	}
}
