package scoring

// DefaultCatalog returns the reference tables the production model was
// calibrated against. Each call returns an independent copy.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	c.Stats = map[Variable]VariableStats{
		ProfitContOps:            {Mean: 4.016873e+06, P25: 3.296000e+03, P50: 7.443860e+05, P75: 3.911169e+06},
		TotalEquity:              {Mean: 2.599826e+08, P25: 7.245390e+06, P50: 3.483531e+07, P75: 2.130313e+08},
		TotalLiabCurExclDisposal: {Mean: 3.244306e+08, P25: 9.307000e+07, P50: 1.196464e+08, P75: 1.555798e+08},
		TotalLiabCurExHFS:        {Mean: 5.578154e+06, P25: 2.377950e+06, P50: 2.377950e+06, P75: 2.377950e+06},
		NonFinLiabOtherCur:       {Mean: 2.198911e+07, P25: 2.253170e+06, P50: 3.787620e+06, P75: 5.434850e+06},
		FinLiabOtherCur:          {Mean: 6.297570e+07, P25: 4.722060e+06, P50: 1.036847e+07, P75: 2.205482e+07},
		ProvCurTotal:             {Mean: 1.316643e+07, P25: 1.122660e+06, P50: 2.564660e+06, P75: 5.515620e+06},
	}

	c.Labels = map[Variable]string{
		ProfitContOps:            "Utilidad operativa",
		TotalEquity:              "Patrimonio total",
		TotalLiabCurExclDisposal: "Pasivos corrientes sin disposiciones",
		TotalLiabCurExHFS:        "Pasivos corrientes ajustados",
		NonFinLiabOtherCur:       "Otros pasivos corrientes no financieros",
		FinLiabOtherCur:          "Otros pasivos corrientes financieros",
		ProvCurTotal:             "Provisiones corrientes totales",
	}

	c.Questions = map[Variable]string{
		ProfitContOps:            "¿Cuál fue la utilidad operacional de tu empresa en el último año?",
		TotalEquity:              "¿Cuál es el valor total del patrimonio de tu empresa?",
		TotalLiabCurExclDisposal: "¿A cuánto ascienden las deudas y obligaciones de corto plazo de tu empresa (≤ 1 año)?",
		TotalLiabCurExHFS:        "Indica el total de pasivos corrientes (obligaciones que vencen en el corto plazo).",
		NonFinLiabOtherCur:       "¿Obligaciones de corto plazo no financieras? Monto total.",
		FinLiabOtherCur:          "¿Valor de las deudas financieras de corto plazo (créditos, leasing, pagarés)?",
		ProvCurTotal:             "¿Provisiones de corto plazo (litigios, indemnizaciones, obligaciones fiscales)? ¿Por cuánto?",
	}

	c.Advice = map[Variable]map[Tier]string{
		ProfitContOps: {
			TierLow:     "Tu margen operativo es bajo. Revisa tus precios y el tipo de productos que ofreces. Reduce gastos innecesarios, renegocia con proveedores y busca formas de hacer más eficiente la operación.",
			TierMidLow:  "Tu rentabilidad puede mejorar. Controla los gastos operativos, estandariza procesos, y busca agilizar la rotación de inventarios y cuentas por cobrar.",
			TierMidHigh: "Tu gestión es buena. Mantén el control de costos, revisa variaciones entre presupuestos y resultados, y considera automatizar procesos clave para mejorar la eficiencia.",
			TierHigh:    "Tu rentabilidad operativa es sólida. Documenta las buenas prácticas, protege tus márgenes ante posibles aumentos de costos y monitorea la calidad de tus ingresos.",
		},
		TotalEquity: {
			TierLow:     "Tu patrimonio es débil. Considera retener más utilidades, reducir retiros, y revisar posibles pérdidas acumuladas para fortalecer la estructura financiera.",
			TierMidLow:  "Tu solidez patrimonial puede mejorar. Aumenta la rentabilidad, ajusta la política de dividendos y mejora el control del gasto para fortalecer el capital propio.",
			TierMidHigh: "Tu nivel de patrimonio es saludable. Mantén controlado el nivel de endeudamiento y utiliza parte de las utilidades para reforzar las reservas de capital.",
			TierHigh:    "Tienes una estructura patrimonial sólida. Mantén políticas claras de reinversión y asegúrate de conservar un margen de seguridad ante posibles cambios del entorno.",
		},
		TotalLiabCurExclDisposal: {
			TierLow:     "Tus deudas de corto plazo están en niveles sanos. Mantén una buena relación con proveedores y evita tomar deuda que no necesites.",
			TierMidLow:  "Tus obligaciones de corto plazo son manejables. Asegúrate de coordinar los plazos de cobro y pago para mantener un flujo de caja equilibrado.",
			TierMidHigh: "Tienes cierta presión de caja. Acelera la cobranza, mejora la rotación de inventarios y busca descuentos por pronto pago con tus proveedores.",
			TierHigh:    "Tu nivel de deuda de corto plazo es alto. Renegocia plazos con tus acreedores, refinancia parte a largo plazo y refuerza tus políticas de crédito y cobro.",
		},
		TotalLiabCurExHFS: {
			TierLow:     "Tu manejo de obligaciones de corto plazo es adecuado. Sigue cumpliendo puntualmente con los pagos.",
			TierMidLow:  "Refina tu calendario de pagos para priorizar las obligaciones más importantes y evitar retrasos innecesarios.",
			TierMidHigh: "Tienes cierta concentración de deuda. Revisa los principales acreedores y evita depender demasiado de uno solo.",
			TierHigh:    "Tienes alta exposición en pasivos de corto plazo. Considera refinanciar parte a plazos más largos y organiza mejor tus flujos de pago para reducir el riesgo.",
		},
		NonFinLiabOtherCur: {
			TierLow:     "Estás cumpliendo bien tus obligaciones no financieras. Mantén tus pagos y compromisos al día.",
			TierMidLow:  "Ajusta los acuerdos con proveedores y evita atrasos que puedan generar multas o intereses.",
			TierMidHigh: "Mejora la gestión de pagos y aprobaciones para evitar retrasos. Negocia plazos más convenientes si es posible.",
			TierHigh:    "Tienes atrasos en tus compromisos no financieros. Negocia planes de pago, prioriza las obligaciones fiscales y evita sanciones o sobrecostos.",
		},
		FinLiabOtherCur: {
			TierLow:     "Tus deudas financieras de corto plazo están bajo control. Aun así, revisa si puedes reducir costos financieros.",
			TierMidLow:  "Monitorea tus créditos. Compara tasas y usa las líneas solo cuando realmente se necesiten para cubrir estacionalidades.",
			TierMidHigh: "Tu deuda de corto plazo es significativa. Evalúa mover parte a largo plazo y define límites internos para no sobreendeudarte.",
			TierHigh:    "Tienes un nivel alto de deuda de corto plazo. Renegocia tasas y plazos, refinancia parte a largo plazo y evita depender de créditos rotativos.",
		},
		ProvCurTotal: {
			TierLow:     "Tus provisiones son razonables. Asegúrate de documentar bien los criterios que usas para calcularlas.",
			TierMidLow:  "Revisa tus contingencias y actualiza las provisiones con información reciente para evitar subestimaciones.",
			TierMidHigh: "Tus provisiones son elevadas. Intenta cerrar litigios o acuerdos pendientes y respalda las estimaciones con evidencia sólida.",
			TierHigh:    "Tus provisiones son muy altas. Identifica las causas principales y busca soluciones, como seguros o acuerdos, para reducir los riesgos futuros.",
		},
	}

	return c
}
